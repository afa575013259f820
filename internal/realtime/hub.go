package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// Hub maintains project_id -> set of connections and broadcasts
// matching events. Uses Redis pub/sub for horizontal scaling: local
// broadcast + publish to Redis.
type Hub struct {
	// projectID -> map[clientID]*Client
	projects map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per project
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher is the interface for publishing to Redis (for cross-instance broadcast).
type RedisPublisher interface {
	PublishProjectEvent(projectID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to project channels and invokes handler for incoming events.
type RedisSubscriber interface {
	SubscribeProject(projectID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		projects: make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a project room. Starts the Redis
// subscription for this project if it is the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.projects[c.ProjectID] == nil {
		h.projects[c.ProjectID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeProject(c.ProjectID, func(event string, payload []byte) {
				h.BroadcastToProject(c.ProjectID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.ProjectID] = cancel
			}
		}
	}
	h.projects[c.ProjectID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined project feed", zap.String("client_id", c.ID), zap.String("project_id", c.ProjectID.String()))
}

// Unregister removes a client from a project room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.projects[c.ProjectID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.projects, c.ProjectID)
			if cancel, ok := h.subs[c.ProjectID]; ok {
				cancel()
				delete(h.subs, c.ProjectID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left project feed", zap.String("client_id", c.ID), zap.String("project_id", c.ProjectID.String()))
}

// BroadcastToProject sends a message to all clients in a project room (local only).
func (h *Hub) BroadcastToProject(projectID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.projects[projectID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToProjectAndPublish sends to local clients and publishes to
// Redis so other instances deliver to theirs.
func (h *Hub) BroadcastToProjectAndPublish(projectID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToProject(projectID, event, payload)
	if h.redis != nil {
		_ = h.redis.PublishProjectEvent(projectID, event, data)
	}
}

// RoomCount returns the number of connected clients watching a project.
func (h *Hub) RoomCount(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projects[projectID])
}
