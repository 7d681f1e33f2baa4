package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tracklite-dev/tracklite/internal/handlers"
	"github.com/tracklite-dev/tracklite/internal/metrics"
	"github.com/tracklite-dev/tracklite/internal/middleware"
	"github.com/tracklite-dev/tracklite/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(metrics.HTTPMetrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/events", middleware.Auth(), handlers.Events)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)
		}

		projects := api.Group("/projects", middleware.Auth())
		{
			projects.GET("", handlers.ListProjects)
			projects.POST("", handlers.CreateProject)
			projects.GET("/:id", handlers.GetProject)
			projects.PUT("/:id", handlers.UpdateProject)
			projects.DELETE("/:id", handlers.DeleteProject)
		}

		dashboard := api.Group("/dashboard", middleware.Auth())
		{
			dashboard.GET("/data", handlers.DashboardData)
			dashboard.GET("/admin-data", middleware.RequireRoles(types.RoleAdmin), handlers.AdminData)
			dashboard.GET("/content-data", middleware.RequireRoles(types.RoleAdmin, types.RoleEditor), handlers.ContentData)
		}
	}

	return r
}
