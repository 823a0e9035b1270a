package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks live clients per account id. Delivery is best-effort: an
// offline account or a full client buffer is not an error.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

// Register adds a client under its account id.
func (h *Hub) Register(c *Client) {
	c.hub = h
	c.log = h.log
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.log.Info("websocket client connected", zap.String("userId", c.UserID), zap.String("clientId", c.ID))
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.Send)
	h.log.Info("websocket client disconnected", zap.String("userId", c.UserID), zap.String("clientId", c.ID))
}

// IsConnected reports whether the account has at least one live client.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendToUser queues the payload on every client of the account. Returns
// true if at least one client accepted it.
func (h *Hub) SendToUser(userID string, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := false
	for c := range h.clients[userID] {
		if c.trySend(payload) {
			delivered = true
		} else {
			h.log.Warn("client send buffer full, dropping event",
				zap.String("userId", userID), zap.String("clientId", c.ID))
		}
	}
	return delivered
}
