package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryReturnsSameStorePerSession(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryStorage(), testLogger())

	a := registry.Get(ctx, "session-a")
	b := registry.Get(ctx, "session-a")
	assert.Same(t, a, b)
}

func TestRegistryIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryStorage(), testLogger())

	a := registry.Get(ctx, "session-a")
	b := registry.Get(ctx, "session-b")

	a.AddToCart(ctx, LineItem{ProductID: 1, Quantity: 2})

	assert.Equal(t, 2, a.ItemCount())
	assert.Equal(t, 0, b.ItemCount(), "another session's guest cart is a different slot")
}

func TestRegistryEvictsLeastRecentlyUsedSession(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(NewMemoryStorage(), testLogger())
	registry.maxSessions = 1

	a := registry.Get(ctx, "session-a")
	a.AddToCart(ctx, LineItem{ProductID: 1, Quantity: 3})

	registry.Get(ctx, "session-b")
	assert.Len(t, registry.sessions, 1, "registry never grows past its cap")

	revived := registry.Get(ctx, "session-a")
	assert.NotSame(t, a, revived, "evicted session gets a fresh store")
	assert.Equal(t, 3, revived.ItemCount(), "persisted cart survives eviction")
}

func TestRegistryUserCartSharedAcrossLoginsInSameSession(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	registry := NewRegistry(storage, testLogger())

	store := registry.Get(ctx, "session-a")
	store.Login(ctx, 7)
	store.AddToCart(ctx, LineItem{ProductID: 5, Quantity: 1})
	store.Logout(ctx)

	store.Login(ctx, 7)
	assert.Equal(t, 1, store.ItemCount(), "user cart restored on re-login")
}
