package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"scitech-bot/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries frames between bot instances sharing a Redis
const ClusterChannel = "scitech:transcripts"

type clusterEnvelope struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

type Hub struct {
	// Registered clients: SessionID -> connections (several tabs may share a session)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Optional, fans frames out to other instances
	rdb *redis.Client

	// Identifies this instance on the cluster channel
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run owns registration until ctx is cancelled, then closes every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for _, c := range clients {
					c.close()
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register returns false once the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no more listeners", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Connected returns the number of local connections listening to sessionID
func (h *Hub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Deliver writes a frame to every connection of the session, here and on
// other instances.
func (h *Hub) Deliver(sessionID string, frame []byte) {
	h.deliverLocal(sessionID, frame)

	if h.rdb != nil {
		envelope, _ := json.Marshal(clusterEnvelope{
			Origin:          h.origin,
			TargetSessionID: sessionID,
			Message:         frame,
		})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, envelope).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish frame to cluster", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
}

// SendToSession mirrors a turn event that arrived through another channel
func (h *Hub) SendToSession(sessionID string, payload []byte) {
	h.Deliver(sessionID, turnFrame(payload))
}

func (h *Hub) deliverLocal(sessionID string, frame []byte) {
	var slow []*Client

	h.mu.RLock()
	for _, client := range h.clients[sessionID] {
		if !client.trySend(frame) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope clusterEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("Hub", "Malformed cluster frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		if envelope.Origin == h.origin {
			continue
		}
		h.deliverLocal(envelope.TargetSessionID, envelope.Message)
	}
}
