package docstore

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/structidx/internal/cache"
	"github.com/hupe1980/structidx/internal/resource"
)

// CachingStore wraps a Store and caches whole documents in memory.
// Concurrent misses for the same name are collapsed into one fetch.
type CachingStore struct {
	inner Store
	cache *cache.LRU
	group singleflight.Group
}

// NewCachingStore creates a CachingStore holding at most capacity bytes.
// If rc is non-nil, cached bytes are charged against its memory budget.
func NewCachingStore(inner Store, capacity int64, rc *resource.Controller) *CachingStore {
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(capacity, rc),
	}
}

// Get returns the cached document or fetches it from the inner store.
func (s *CachingStore) Get(ctx context.Context, name string) (Document, error) {
	if data, ok := s.cache.Get(name); ok {
		return bytesDocument(data), nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		data, err := ReadAll(ctx, s.inner, name)
		if err != nil {
			return nil, err
		}
		s.cache.Set(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return bytesDocument(v.([]byte)), nil
}

// Put invalidates the cached copy and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Delete(name)
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates the cached copy and deletes from the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Delete(name)
	return s.inner.Delete(ctx, name)
}

// List is served by the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hits and misses.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}
