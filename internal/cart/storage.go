package cart

import (
	"context"
	"fmt"
	"sync"
)

// GuestScopeKey is the storage slot for carts of not-logged-in visitors.
const GuestScopeKey = "cart_guest"

// UserScopeKey derives the storage slot for an authenticated user's cart.
func UserScopeKey(userID uint) string {
	return fmt.Sprintf("cart_user_%d", userID)
}

// Storage persists one line-item list per scope key as a JSON array.
// The format carries no version field, so changes must stay
// backward-compatible (see the key backfill in Store.load).
type Storage interface {
	// Load returns the list stored under key; ok is false when the slot
	// is empty.
	Load(ctx context.Context, key string) (items []LineItem, ok bool, err error)
	Save(ctx context.Context, key string, items []LineItem) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage is a map-backed Storage for tests and as a fallback
// when Redis is unavailable.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]LineItem
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]LineItem)}
}

func (s *MemoryStorage) Load(ctx context.Context, key string) ([]LineItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out, true, nil
}

func (s *MemoryStorage) Save(ctx context.Context, key string, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]LineItem, len(items))
	copy(stored, items)
	s.slots[key] = stored
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
