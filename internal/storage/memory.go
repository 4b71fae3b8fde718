package storage

import (
	"context"
	"time"

	"openroutersidebar/internal/cache"
	"openroutersidebar/internal/core"
)

// MemoryStore keeps sessions in a process-local LRU cache.
type MemoryStore struct {
	cache *cache.LRUCache
	ttl   time.Duration
}

// NewMemoryStore creates an in-memory store whose entries expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.NewCacheWithCapacity(core.SessionCapacity),
		ttl:   ttl,
	}
}

func (ms *MemoryStore) Load(ctx context.Context, id string) (*core.Session, error) {
	v, ok := ms.cache.Get(id)
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	sess, ok := v.(*core.Session)
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (ms *MemoryStore) Save(ctx context.Context, sess *core.Session) error {
	ms.cache.Set(sess.ID, sess.Clone(), ms.ttl)
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.cache.Delete(id)
	return nil
}

func (ms *MemoryStore) Close() error {
	return ms.cache.Close()
}
