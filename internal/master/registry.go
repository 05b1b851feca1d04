package master

import (
	"sync"
)

// Registry tracks every live connection, keyed by connection UUID. It holds
// non-owning references; the accept loop adds on accept and removes on
// socket close. Lookups by user resolve only connections that completed
// login.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]*Conn, 256),
	}
}

// Add registers a connection. Idempotent for the same connection.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// Remove drops a connection. Removing an unknown connection is a no-op.
func (r *Registry) Remove(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c.ID())
}

// FindByUserID returns the logged-in connection for the user, nil when the
// user is not online.
func (r *Registry) FindByUserID(userID uint32) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.conns {
		if s := c.Session(); s != nil && s.User().ID == userID {
			return c
		}
	}
	return nil
}

// FindByPlayerName returns the logged-in connection for the player name,
// nil when no such player is online. Names are unique upstream.
func (r *Registry) FindByPlayerName(name string) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.conns {
		if s := c.Session(); s != nil && s.User().PlayerName == name {
			return c
		}
	}
	return nil
}

// Count returns the number of live connections, logged in or not.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// SessionCount returns the number of logged-in connections.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.conns {
		if c.Session() != nil {
			n++
		}
	}
	return n
}

// Snapshot returns the current connections. Used by shutdown and broadcast
// paths that must not hold the registry lock while sending.
func (r *Registry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
