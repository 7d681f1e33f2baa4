// Package client is the Go client for the tracklite API: a thin HTTP wrapper
// plus a session context that keeps the signed-in state on disk.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the server's {msg} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token sent with every subsequent request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}

		var errBody struct {
			Msg string `json:"msg"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Msg != "" {
			apiErr.Message = errBody.Msg
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Register(username, email, password, role string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	if role != "" {
		body["role"] = role
	}

	var resp AuthResponse
	if err := c.do(http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp AuthResponse
	if err := c.do(http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProjects() ([]Project, error) {
	var projects []Project
	if err := c.do(http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(id string) (*Project, error) {
	var project Project
	if err := c.do(http.MethodGet, "/api/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

type CreateProjectParams struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (c *Client) CreateProject(params CreateProjectParams) (*Project, error) {
	var project Project
	if err := c.do(http.MethodPost, "/api/projects", params, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProjectParams carries a partial update. Nil fields are omitted from
// the request entirely; ClearDueDate sends an explicit null dueDate.
type UpdateProjectParams struct {
	Title        *string
	Description  *string
	Status       *string
	DueDate      *time.Time
	ClearDueDate bool
}

func (c *Client) UpdateProject(id string, params UpdateProjectParams) (*Project, error) {
	body := make(map[string]interface{})

	if params.Title != nil {
		body["title"] = *params.Title
	}
	if params.Description != nil {
		body["description"] = *params.Description
	}
	if params.Status != nil {
		body["status"] = *params.Status
	}
	if params.ClearDueDate {
		body["dueDate"] = nil
	} else if params.DueDate != nil {
		body["dueDate"] = *params.DueDate
	}

	var project Project
	if err := c.do(http.MethodPut, "/api/projects/"+id, body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(id string) error {
	return c.do(http.MethodDelete, "/api/projects/"+id, nil, nil)
}

func (c *Client) dashboardMessage(path string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) DashboardData() (string, error) {
	return c.dashboardMessage("/api/dashboard/data")
}

func (c *Client) AdminData() (string, error) {
	return c.dashboardMessage("/api/dashboard/admin-data")
}

func (c *Client) ContentData() (string, error) {
	return c.dashboardMessage("/api/dashboard/content-data")
}
