package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub keeps every live client so the server can close them all on shutdown.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	stopped bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

// Register tracks c. It reports false once the hub is stopped, in which case
// the caller should close c.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop closes every tracked client and refuses new ones.
func (h *Hub) Stop() {
	h.mu.Lock()
	h.stopped = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.Close(); err != nil {
			log.Debug().Err(err).Str("peer_id", c.ID().String()).Msg("Error closing client")
		}
	}
	log.Info().Int("count", len(clients)).Msg("Closed client connections")
}
