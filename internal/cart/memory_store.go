package cart

import (
	"context"
	"sync"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartLine)}
}

// Load returns a copy of the stored line array.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

// Save stores a copy of the line array.
func (s *MemoryStore) Save(_ context.Context, sessionID string, lines []domain.CartLine) error {
	stored := make([]domain.CartLine, len(lines))
	copy(stored, lines)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = stored
	return nil
}

// Delete removes the stored cart.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
