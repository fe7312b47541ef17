package gateway

import (
	"sync"
	"sync/atomic"
)

// ConnRegistry tracks live stream connections
type ConnRegistry struct {
	mu      sync.RWMutex
	clients map[string]*Client // conn_id -> client
	count   atomic.Int64
}

// NewConnRegistry creates a new connection registry
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the registry
func (r *ConnRegistry) Register(c *Client) {
	r.mu.Lock()
	r.clients[c.ConnId] = c
	r.mu.Unlock()
	r.count.Add(1)
}

// Unregister removes a client from the registry and reports whether
// the client was still registered.
func (r *ConnRegistry) Unregister(c *Client) bool {
	r.mu.Lock()
	_, ok := r.clients[c.ConnId]
	if ok {
		delete(r.clients, c.ConnId)
	}
	r.mu.Unlock()
	if ok {
		r.count.Add(-1)
	}
	return ok
}

// AllClients returns a snapshot of all connected clients
func (r *ConnRegistry) AllClients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Count returns the number of live connections
func (r *ConnRegistry) Count() int64 {
	return r.count.Load()
}
