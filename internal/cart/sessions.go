package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// defaultMaxSessions caps how many per-session stores the registry
// keeps in memory at once.
const defaultMaxSessions = 10000

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// Registry hands out one Store per browser session. Slots are
// namespaced by session id, so the guest slot and the user slots of
// different browsers never collide, while the same browser sees its
// user cart again after logout and re-login.
//
// The registry holds at most maxSessions stores; when full, the least
// recently used session is dropped. Its persisted cart stays in
// storage and is reloaded if that session comes back.
type Registry struct {
	mu          sync.Mutex
	storage     Storage
	log         *slog.Logger
	maxSessions int
	sessions    map[string]*sessionEntry
}

func NewRegistry(storage Storage, log *slog.Logger) *Registry {
	return &Registry{
		storage:     storage,
		log:         log,
		maxSessions: defaultMaxSessions,
		sessions:    make(map[string]*sessionEntry),
	}
}

// Get returns the session's store, creating it on first use.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.sessions[sessionID]; ok {
		entry.lastSeen = time.Now()
		return entry.store
	}
	if len(r.sessions) >= r.maxSessions {
		r.evictOldest()
	}
	store := NewStore(ctx, &scopedStorage{inner: r.storage, prefix: sessionID}, r.log)
	r.sessions[sessionID] = &sessionEntry{store: store, lastSeen: time.Now()}
	return store
}

func (r *Registry) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, entry := range r.sessions {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID = id
			oldest = entry.lastSeen
		}
	}
	if oldestID != "" {
		delete(r.sessions, oldestID)
		r.log.Info("evicted idle cart session", "session_id", oldestID)
	}
}

// scopedStorage prefixes every slot key with the session id.
type scopedStorage struct {
	inner  Storage
	prefix string
}

func (s *scopedStorage) key(key string) string {
	return s.prefix + ":" + key
}

func (s *scopedStorage) Load(ctx context.Context, key string) ([]LineItem, bool, error) {
	return s.inner.Load(ctx, s.key(key))
}

func (s *scopedStorage) Save(ctx context.Context, key string, items []LineItem) error {
	return s.inner.Save(ctx, s.key(key), items)
}

func (s *scopedStorage) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.key(key))
}
