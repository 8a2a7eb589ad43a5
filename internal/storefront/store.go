package storefront

import (
	"context"
	"slices"
	"sync"

	"github.com/Skotchmaster/food_ordering/internal/cart"
)

// CartStore persists cart snapshots per user between sessions.
type CartStore interface {
	// Load returns nil and no error when nothing is stored for userID.
	Load(ctx context.Context, userID string) ([]cart.Line, error)
	Save(ctx context.Context, userID string, lines []cart.Line) error
	Delete(ctx context.Context, userID string) error
}

type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]cart.Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]cart.Line)}
}

func (m *MemoryStore) Load(_ context.Context, userID string) ([]cart.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.carts[userID]), nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, lines []cart.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(lines) == 0 {
		delete(m.carts, userID)
		return nil
	}
	m.carts[userID] = slices.Clone(lines)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}
