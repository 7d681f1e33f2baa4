package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklite-dev/tracklite/internal/handlers"
)

func TestEventsFeedReceivesProjectEvents(t *testing.T) {
	r := setupServer(t)

	server := httptest.NewServer(r)
	defer server.Close()

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events"
	header := http.Header{"Authorization": {"Bearer " + alice.Token}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "connected", welcome["type"])

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]string{
		"title":       "T",
		"description": "D",
	}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeProject(t, w)

	var event map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "refresh", event["type"])
	assert.Equal(t, "created", event["action"])
	assert.Equal(t, project.ID, event["project_id"])
}

// Broadcasts fire from every mutating handler, so several can overlap each
// other and the keepalive pings on a single connection. All of them must come
// through intact.
func TestEventsFeedConcurrentBroadcasts(t *testing.T) {
	r := setupServer(t)

	server := httptest.NewServer(r)
	defer server.Close()

	alice := registerUser(t, r, "alice", "alice@x.com", "secret1", "")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events"
	header := http.Header{"Authorization": {"Bearer " + alice.Token}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, "connected", welcome["type"])

	const (
		writers   = 16
		perWriter = 4
	)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				handlers.BroadcastProjectEvent(alice.User.ID, "updated", "p1")
			}
		}()
	}
	wg.Wait()

	for i := 0; i < writers*perWriter; i++ {
		var event map[string]string
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		require.NoError(t, conn.ReadJSON(&event))
		assert.Equal(t, "refresh", event["type"])
		assert.Equal(t, "updated", event["action"])
	}
}

func TestEventsRequiresAuth(t *testing.T) {
	r := setupServer(t)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
