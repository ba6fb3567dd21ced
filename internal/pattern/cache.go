package pattern

import (
	"container/list"
	"hash/maphash"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/structidx/model"
)

const numShards = 64

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      int64
	Misses    int64
	Puts      int64
	Evictions int64
}

type entry struct {
	path    string
	pattern model.Pattern
	elem    *list.Element
}

type shard struct {
	mu       sync.RWMutex
	items    map[string]*entry
	lru      *list.List // nil when unbounded
	capacity int
}

// Cache maps attribute paths to patterns. It is safe for concurrent use.
type Cache struct {
	shards [numShards]*shard
	seed   maphash.Seed

	hits      atomic.Int64
	misses    atomic.Int64
	puts      atomic.Int64
	evictions atomic.Int64
}

// New creates a cache. capacity <= 0 means unbounded; otherwise the capacity
// is divided evenly across shards (at least one entry each).
func New(capacity int) *Cache {
	c := &Cache{seed: maphash.MakeSeed()}

	shardCapacity := 0
	if capacity > 0 {
		shardCapacity = max(capacity/numShards, 1)
	}

	for i := range numShards {
		s := &shard{
			items:    make(map[string]*entry),
			capacity: shardCapacity,
		}
		if shardCapacity > 0 {
			s.lru = list.New()
		}
		c.shards[i] = s
	}
	return c
}

func (c *Cache) shard(path string) *shard {
	return c.shards[maphash.String(c.seed, path)%numShards]
}

// Get returns the pattern cached for path. The returned Pattern must not be
// modified.
func (c *Cache) Get(path string) (model.Pattern, bool) {
	s := c.shard(path)

	var p model.Pattern
	var ok bool
	if s.lru == nil {
		s.mu.RLock()
		if e, found := s.items[path]; found {
			p, ok = e.pattern, true
		}
		s.mu.RUnlock()
	} else {
		s.mu.Lock()
		if e, found := s.items[path]; found {
			s.lru.MoveToFront(e.elem)
			p, ok = e.pattern, true
		}
		s.mu.Unlock()
	}

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return p, ok
}

// Put stores a copy of p for path, replacing any previous entry.
func (c *Cache) Put(path string, p model.Pattern) {
	if len(p) == 0 {
		return
	}
	stored := p.Clone()
	s := c.shard(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.puts.Add(1)

	if e, ok := s.items[path]; ok {
		e.pattern = stored
		if s.lru != nil {
			s.lru.MoveToFront(e.elem)
		}
		return
	}

	e := &entry{path: path, pattern: stored}
	s.items[path] = e
	if s.lru == nil {
		return
	}
	e.elem = s.lru.PushFront(e)
	for s.lru.Len() > s.capacity {
		oldest := s.lru.Back()
		old := oldest.Value.(*entry)
		s.lru.Remove(oldest)
		delete(s.items, old.path)
		c.evictions.Add(1)
	}
}

// Delete removes the entry for path.
func (c *Cache) Delete(path string) {
	s := c.shard(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[path]; ok {
		if s.lru != nil {
			s.lru.Remove(e.elem)
		}
		delete(s.items, path)
	}
}

// Clear removes every entry. Counters are kept.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		clear(s.items)
		if s.lru != nil {
			s.lru.Init()
		}
		s.mu.Unlock()
	}
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Range calls fn for every entry until fn returns false. Entries added or
// removed concurrently may or may not be visited.
func (c *Cache) Range(fn func(path string, p model.Pattern) bool) {
	for _, s := range c.shards {
		s.mu.RLock()
		type kv struct {
			path string
			p    model.Pattern
		}
		snapshot := make([]kv, 0, len(s.items))
		for path, e := range s.items {
			snapshot = append(snapshot, kv{path, e.pattern})
		}
		s.mu.RUnlock()

		for _, e := range snapshot {
			if !fn(e.path, e.p) {
				return
			}
		}
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Puts:      c.puts.Load(),
		Evictions: c.evictions.Load(),
	}
}
