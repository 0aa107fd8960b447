package memory

import (
	"context"
	"sync"

	"github.com/jshop/jshop/internal/shop/ports"
)

// Store retains checkout responses for replaying duplicate requests. A key is
// either pending (reserved, checkout in flight) or completed.
type Store struct {
	mu      sync.Mutex
	pending map[string]struct{}
	items   map[string]ports.StoredResponse
}

// NewStore creates a new in-memory idempotency store.
func NewStore() *Store {
	return &Store{
		pending: make(map[string]struct{}),
		items:   make(map[string]ports.StoredResponse),
	}
}

// Reserve claims the key. Only the first caller wins.
func (s *Store) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; ok {
		return false, nil
	}
	if _, ok := s.items[key]; ok {
		return false, nil
	}
	s.pending[key] = struct{}{}
	return true, nil
}

// Get returns the completed response for a key if present. Pending keys read
// as absent.
func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	copy := value
	return &copy, nil
}

// Save completes a reserved key. The first write wins.
func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; ok {
		return nil
	}
	delete(s.pending, key)
	s.items[key] = response
	return nil
}

// Release frees a pending key. Completed keys stay.
func (s *Store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
	return nil
}
