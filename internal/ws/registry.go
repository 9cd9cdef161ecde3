package ws

import "sync"

// Registry maps live connection ids to their resolved identity, if any.
// It owns its state exclusively; the hub mutates it on every connect and
// disconnect path so the online list never holds stale entries. Reads can
// come from HTTP handlers, hence the lock.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Identity // connection id -> identity, nil while anonymous
}

// NewRegistry creates an empty presence registry
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Identity)}
}

// Add records a connection. identity is nil for anonymous connections.
// A connection identified at handshake never reverts to anonymous.
func (r *Registry) Add(connID string, identity *Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = identity
}

// Resolve returns the identity behind a connection, or nil if the connection
// is unknown or anonymous
func (r *Registry) Resolve(connID string) *Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[connID]
}

// Remove drops a connection and returns the identity it had, if any
func (r *Registry) Remove(connID string) *Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.conns[connID]
	delete(r.conns, connID)
	return id
}

// Online returns the identities of all currently identified connections
func (r *Registry) Online() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Identity, 0, len(r.conns))
	for _, id := range r.conns {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}
