package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"

	"github.com/tracklite-dev/tracklite/db"
	"github.com/tracklite-dev/tracklite/internal/auth"
	"github.com/tracklite-dev/tracklite/internal/router"
	"github.com/tracklite-dev/tracklite/internal/types"
)

// setupServer opens a fresh in-memory database named after the test and
// returns the full API router.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	auth.SetSecret("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	if err := db.Open(sqlite.Open(dsn)); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return router.NewRouter()
}

func doRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type authResult struct {
	Token string             `json:"token"`
	User  types.UserResponse `json:"user"`
}

func registerUser(t *testing.T, r http.Handler, username, email, password, role string) authResult {
	t.Helper()

	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if role != "" {
		body["role"] = role
	}

	w := doRequest(r, http.MethodPost, "/api/auth/register", body, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("register %s failed: status %d, body %s", email, w.Code, w.Body.String())
	}

	var result authResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}

	return result
}

func decodeProject(t *testing.T, w *httptest.ResponseRecorder) types.ProjectResponse {
	t.Helper()

	var project types.ProjectResponse
	if err := json.Unmarshal(w.Body.Bytes(), &project); err != nil {
		t.Fatalf("failed to decode project response: %v (body %s)", err, w.Body.String())
	}
	return project
}
