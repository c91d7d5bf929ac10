package cart

import (
	"context"
	"log/slog"
	"sync"
)

// Store is the authoritative view of one browsing session's cart. It
// holds the active scope's items in memory and re-serializes the full
// list to the scope's storage slot after every mutation.
//
// A Store serves a single session; concurrent handler access is
// serialized by an internal mutex. Two sessions writing the same user
// slot can still race (last write wins) — there is no cross-session
// locking, matching the single-writer assumption of the storage format.
type Store struct {
	mu          sync.Mutex
	storage     Storage
	log         *slog.Logger
	scopeKey    string
	items       []LineItem
	initialized bool
}

// NewStore builds a Store in the guest scope and loads whatever the
// guest slot holds.
func NewStore(ctx context.Context, storage Storage, log *slog.Logger) *Store {
	s := &Store{storage: storage, log: log}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switchScope(ctx, GuestScopeKey)
	return s
}

// switchScope loads the persisted list for the new scope. The
// initialized flag stays false until the load finishes so an empty
// list can never overwrite a slot that was not read yet. Callers hold
// s.mu.
func (s *Store) switchScope(ctx context.Context, scopeKey string) {
	s.initialized = false
	s.scopeKey = scopeKey
	s.items = s.load(ctx, scopeKey)
	s.initialized = true
}

// load reads and backfills a scope's items. Storage failures degrade to
// an empty cart; the session stays usable.
func (s *Store) load(ctx context.Context, scopeKey string) []LineItem {
	items, ok, err := s.storage.Load(ctx, scopeKey)
	if err != nil {
		s.log.Error("cart load failed, starting empty", "scope", scopeKey, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	for i := range items {
		// Items persisted before keys were precomputed lack one.
		if items[i].Key == "" {
			items[i].Key = ItemKey(items[i].ProductID, items[i].Size)
		}
	}
	return items
}

// persist writes the current list to the active scope's slot. Mutations
// before initialization are never persisted.
func (s *Store) persist(ctx context.Context) {
	if !s.initialized {
		return
	}
	if err := s.storage.Save(ctx, s.scopeKey, s.items); err != nil {
		s.log.Error("cart persist failed", "scope", s.scopeKey, "error", err)
	}
}

// Login switches the store into the user's scope, first folding any
// guest cart into the user's persisted cart. The merge accumulates
// quantities for lines sharing a composite key and appends the rest;
// the guest slot is cleared afterwards. The whole sequence is
// load-merge-persist-reload, strictly in that order.
func (s *Store) Login(ctx context.Context, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userKey := UserScopeKey(userID)
	guestItems, guestOK, err := s.storage.Load(ctx, GuestScopeKey)
	if err != nil {
		s.log.Error("guest cart load failed, skipping migration", "error", err)
		s.switchScope(ctx, userKey)
		return
	}

	if guestOK {
		userItems := s.load(ctx, userKey)
		for i := range guestItems {
			if guestItems[i].Key == "" {
				guestItems[i].Key = ItemKey(guestItems[i].ProductID, guestItems[i].Size)
			}
		}
		userItems = merge(userItems, guestItems)
		if err := s.storage.Save(ctx, userKey, userItems); err != nil {
			s.log.Error("cart merge persist failed", "scope", userKey, "error", err)
		} else if err := s.storage.Delete(ctx, GuestScopeKey); err != nil {
			s.log.Error("guest cart clear failed", "error", err)
		}
	}

	s.switchScope(ctx, userKey)
}

// merge folds guest lines into the user's list: quantities accumulate
// on key match, unmatched guest lines are appended.
func merge(userItems, guestItems []LineItem) []LineItem {
	for _, g := range guestItems {
		found := false
		for i := range userItems {
			if userItems[i].Key == g.Key {
				userItems[i].Quantity += g.Quantity
				found = true
				break
			}
		}
		if !found {
			userItems = append(userItems, g)
		}
	}
	return userItems
}

// Logout returns the store to the guest scope. The user's persisted
// cart is left untouched for their next login.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switchScope(ctx, GuestScopeKey)
}

// AddToCart coalesces onto an existing line with the same composite key
// by incrementing its quantity, or appends a new line carrying the
// product snapshot. Stock limits are not enforced here.
func (s *Store) AddToCart(ctx context.Context, item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Key = ItemKey(item.ProductID, item.Size)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Key == item.Key {
			s.items[i].Quantity += item.Quantity
			s.persist(ctx)
			return
		}
	}
	s.items = append(s.items, item)
	s.persist(ctx)
}

// RemoveFromCart deletes the line matching the composite key; absent
// lines are a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, productID uint, size *Size) {
	key := ItemKey(productID, size)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Key == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the matching line's quantity to the given value.
// A quantity of zero or below removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uint, quantity int, size *Size) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID, size)
		return
	}
	key := ItemKey(productID, size)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Key == key {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// ClearCart empties the list. Call it only after a confirmed successful
// order placement; clearing speculatively would lose the cart on a
// failed checkout.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist(ctx)
}

// Items returns a snapshot of the current lines.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums stored unit price times quantity over all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums quantities over all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}
