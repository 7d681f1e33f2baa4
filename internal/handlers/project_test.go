package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklite-dev/tracklite/internal/types"
)

func TestCreateAndListProjects(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
		"status":      "In Progress",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeProject(t, w)
	assert.Equal(t, "T", created.Title)
	assert.Equal(t, "D", created.Description)
	assert.Equal(t, "In Progress", created.Status)
	assert.Equal(t, alice.User.ID, created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.DueDate)

	w = doRequest(r, http.MethodGet, "/api/projects", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []types.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	assert.Equal(t, "T", projects[0].Title)
	assert.Equal(t, "In Progress", projects[0].Status)
}

func TestCreateProjectDefaultsStatus(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeProject(t, w)
	assert.Equal(t, "Not Started", created.Status)
}

func TestCreateProjectValidation(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing title", map[string]string{"description": "D"}},
		{"missing description", map[string]string{"title": "T"}},
		{"bad status", map[string]string{"title": "T", "description": "D", "status": "Bogus"}},
		{"title too long", map[string]string{"title": longString(101), "description": "D"}},
		{"description too long", map[string]string{"title": "T", "description": longString(501)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/projects", tc.body, alice.Token)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestListProjectsOrderedNewestFirst(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	for _, title := range []string{"first", "second"} {
		w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
			"title":       title,
			"description": "D",
		}, alice.Token)
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(10 * time.Millisecond)
	}

	w := doRequest(r, http.MethodGet, "/api/projects", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []types.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 2)
	assert.Equal(t, "second", projects[0].Title)
	assert.Equal(t, "first", projects[1].Title)
}

func TestGetProjectOwnership(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")
	bob := registerUser(t, r, "bob", "bob@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	w = doRequest(r, http.MethodGet, "/api/projects/"+project.ID, nil, bob.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "T")

	w = doRequest(r, http.MethodGet, "/api/projects/"+project.ID, nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeProject(t, w)
	assert.Equal(t, project.ID, got.ID)
	assert.Equal(t, "T", got.Title)
}

func TestGetProjectNotFound(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	w := doRequest(r, http.MethodGet, "/api/projects/"+uuid.NewString(), nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A syntactically bogus id is indistinguishable from a missing one.
	w = doRequest(r, http.MethodGet, "/api/projects/not-a-real-id", nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProjectPartialMerge(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	w := doRequest(r, http.MethodPost, "/api/projects", map[string]interface{}{
		"title":       "T",
		"description": "D",
		"dueDate":     due,
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decodeProject(t, w)
	require.NotNil(t, project.DueDate)

	w = doRequest(r, http.MethodPut, "/api/projects/"+project.ID, map[string]string{
		"status": "Completed",
	}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decodeProject(t, w)
	assert.Equal(t, "Completed", updated.Status)
	assert.Equal(t, "T", updated.Title)
	assert.Equal(t, "D", updated.Description)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
}

func TestUpdateProjectClearDueDate(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	w := doRequest(r, http.MethodPost, "/api/projects", map[string]interface{}{
		"title":       "T",
		"description": "D",
		"dueDate":     due,
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	// Omitting dueDate keeps it.
	w = doRequest(r, http.MethodPut, "/api/projects/"+project.ID, map[string]string{
		"title": "T2",
	}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeProject(t, w)
	assert.NotNil(t, updated.DueDate)

	// An explicit null clears it.
	w = doRequest(r, http.MethodPut, "/api/projects/"+project.ID, map[string]interface{}{
		"dueDate": nil,
	}, alice.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated = decodeProject(t, w)
	assert.Nil(t, updated.DueDate)
}

func TestUpdateProjectValidation(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	w = doRequest(r, http.MethodPut, "/api/projects/"+project.ID, map[string]string{
		"status": "Bogus",
	}, alice.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProjectOwnership(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")
	bob := registerUser(t, r, "bob", "bob@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	w = doRequest(r, http.MethodPut, "/api/projects/"+project.ID, map[string]string{
		"title": "hijacked",
	}, bob.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/api/projects/"+project.ID, nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T", decodeProject(t, w).Title)
}

func TestDeleteProject(t *testing.T) {
	r := setupServer(t)

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")
	bob := registerUser(t, r, "bob", "bob@x.com", "secret1", "")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	w = doRequest(r, http.MethodDelete, "/api/projects/"+project.ID, nil, bob.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/projects/"+project.ID, nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Project removed")

	w = doRequest(r, http.MethodGet, "/api/projects/"+project.ID, nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/projects/"+project.ID, nil, alice.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectsRequireAuth(t *testing.T) {
	r := setupServer(t)

	w := doRequest(r, http.MethodGet, "/api/projects", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token")

	w = doRequest(r, http.MethodGet, "/api/projects", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token failed")
}

func longString(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = 'x'
	}
	return string(s)
}
