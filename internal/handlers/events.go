package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tracklite-dev/tracklite/internal/types"
	"github.com/tracklite-dev/tracklite/internal/utils"
)

// eventConn serializes all writes to one websocket connection. Broadcasts,
// the welcome message, and pings can otherwise overlap, and gorilla/websocket
// allows only a single concurrent writer.
type eventConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *eventConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *eventConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

var (
	userClients   = make(map[string]map[*eventConn]bool)
	userClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func unregisterClient(userID string, client *eventConn) {
	userClientsMu.Lock()

	if clients, exists := userClients[userID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(userClients, userID)
		}
	}

	userClientsMu.Unlock()
}

// BroadcastProjectEvent pushes an advisory refresh message to every open
// connection of the project owner. Failures only drop the broken connection.
func BroadcastProjectEvent(userID, action, projectID string) {
	userClientsMu.RLock()
	clients, exists := userClients[userID]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*eventConn, 0, len(clients))
	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	userClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]string{
			"type":       "refresh",
			"action":     action,
			"project_id": projectID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			unregisterClient(userID, client)
			client.conn.Close()
		}
	}
}

// Events upgrades the request to a websocket and streams project events for
// the authenticated user until the connection closes.
func Events(c *gin.Context) {
	user, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	client := &eventConn{conn: conn}

	userClientsMu.Lock()
	if userClients[user.ID] == nil {
		userClients[user.ID] = make(map[*eventConn]bool)
	}
	userClients[user.ID][client] = true
	userClientsMu.Unlock()

	defer func() {
		unregisterClient(user.ID, client)
		conn.Close()

		log.Printf("WebSocket connection closed for user %s", user.ID)
	}()

	err = client.writeJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := client.ping(); err != nil {
				log.Printf("Ping failed for user %s: %v", user.ID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %s: %v", user.ID, err)
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %s: %v", user.ID, err)
			}
			break
		}
	}
}
