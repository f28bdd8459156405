package cart

import (
	"context"
	"sync"
)

// Store persists carts between requests, keyed by session id.
type Store interface {
	// Load returns the session's cart, or an empty cart if none is stored.
	Load(ctx context.Context, sessionID string) (*Cart, error)

	// Save replaces the session's cart. Saving an empty cart removes it.
	Save(ctx context.Context, sessionID string, c *Cart) error
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]map[string]int)}
}

// Load returns a copy of the stored cart.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := New()
	for id, q := range s.carts[sessionID] {
		c.entries[id] = q
	}
	return c, nil
}

// Save stores a copy of c.
func (s *MemoryStore) Save(_ context.Context, sessionID string, c *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.IsEmpty() {
		delete(s.carts, sessionID)
		return nil
	}

	entries := make(map[string]int, c.Len())
	for id, q := range c.entries {
		entries[id] = q
	}
	s.carts[sessionID] = entries
	return nil
}
