package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tracklite-dev/tracklite/internal/auth"
	"github.com/tracklite-dev/tracklite/internal/types"
)

// AuthenticatedUser is the identity recovered from a verified token and
// attached to the request context.
type AuthenticatedUser struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Auth rejects requests without a valid bearer token. Presence is checked
// before validity; a request that fails either never reaches the handler.
func Auth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized, no token"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized, no token"})
			return
		}

		claims, err := auth.Verify(parts[1])

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized, token failed"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:   claims.UserID,
			Role: claims.Role,
		})
		ctx.Next()
	}
}

// RequireRoles allows the request through only when the authenticated role is
// in the given set. Must be chained after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		user, ok := value.(AuthenticatedUser)

		if !exists || !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "User role is not authorized to access this route"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"msg": fmt.Sprintf("User role %s is not authorized to access this route", user.Role),
		})
	}
}
