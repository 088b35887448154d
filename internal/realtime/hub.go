package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"alertautec-backend/internal/database/models"
	"alertautec-backend/internal/logger"
	"alertautec-backend/internal/repository"
	"alertautec-backend/internal/service"
)

const writeTimeout = 10 * time.Second

// client is one live websocket connection
type client struct {
	id      string
	userID  string
	role    models.Role
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks live websocket connections and fans messages out to them
// by role or by user id. The connection registry is mirrored to the
// database so the targets survive a restart; delivery itself goes
// through the in-process sockets, with a failed send pruning both the
// local entry and the persisted row.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*client
	connRepo repository.ConnectionRepositoryInterface
	bridge   *Bridge
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewHub creates a websocket hub
func NewHub(connRepo repository.ConnectionRepositoryInterface, log *logger.Logger) *Hub {
	return &Hub{
		clients:  make(map[string]*client),
		connRepo: connRepo,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers connect from the SPA origin; auth happens on the token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetBridge attaches a cross-instance event bridge
func (h *Hub) SetBridge(bridge *Bridge) {
	h.bridge = bridge
}

// HandleConnection upgrades an HTTP request to a websocket and keeps it
// registered until the peer disconnects
func (h *Hub) HandleConnection(c *gin.Context) {
	userID := c.Query("userId")
	role := models.Role(c.DefaultQuery("role", "guest"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	cl := &client{
		id:     uuid.New().String(),
		userID: userID,
		role:   role,
		conn:   conn,
	}

	h.register(cl)
	defer h.unregister(cl)

	// Drain the socket; inbound payloads are ignored, reads only detect
	// the peer going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()

	record := &models.Connection{
		ConnectionID: cl.id,
		UserID:       cl.userID,
		UserRole:     cl.role,
		ConnectedAt:  time.Now().UTC(),
	}
	if err := h.connRepo.Put(record); err != nil {
		h.logger.WithError(err).WithField("connection_id", cl.id).Warn("Failed to persist connection")
	}

	h.logger.WithFields(map[string]interface{}{
		"connection_id": cl.id,
		"user_id":       cl.userID,
		"role":          cl.role,
	}).Info("Websocket client connected")
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl.id)
	h.mu.Unlock()

	cl.conn.Close()
	if err := h.connRepo.Delete(cl.id); err != nil {
		h.logger.WithError(err).WithField("connection_id", cl.id).Warn("Failed to remove connection record")
	}

	h.logger.WithField("connection_id", cl.id).Info("Websocket client disconnected")
}

// BroadcastToRoles sends a message to every connection whose role is in
// the target set
func (h *Hub) BroadcastToRoles(roles []models.Role, msg service.PushMessage) {
	h.deliverToRoles(roles, msg)
	if h.bridge != nil {
		h.bridge.publishToRoles(roles, msg)
	}
}

// SendToUser sends a message to every connection opened by one user
func (h *Hub) SendToUser(userID string, msg service.PushMessage) {
	h.deliverToUser(userID, msg)
	if h.bridge != nil {
		h.bridge.publishToUser(userID, msg)
	}
}

func (h *Hub) deliverToRoles(roles []models.Role, msg service.PushMessage) {
	h.deliver(msg, func(cl *client) bool {
		for _, role := range roles {
			if cl.role == role {
				return true
			}
		}
		return false
	})
}

func (h *Hub) deliverToUser(userID string, msg service.PushMessage) {
	h.deliver(msg, func(cl *client) bool {
		return cl.userID == userID
	})
}

func (h *Hub) deliver(msg service.PushMessage, match func(*client) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal push message")
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		if match(cl) {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		if err := cl.send(data); err != nil {
			// Peer is gone, prune it
			h.logger.WithError(err).WithField("connection_id", cl.id).Info("Pruning stale websocket connection")
			h.unregister(cl)
		}
	}
}
