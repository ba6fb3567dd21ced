package bufpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/structidx/internal/mmap"
	"github.com/hupe1980/structidx/internal/resource"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultBuffers is the default pool capacity.
	DefaultBuffers = 1000
	// DefaultBufferSize is the default size of each buffer in bytes.
	DefaultBufferSize = 64 << 10
)

var (
	// ErrBufferTooSmall is returned when a request exceeds the buffer size.
	ErrBufferTooSmall = errors.New("bufpool: requested size exceeds buffer size")
	// ErrPoolExhausted is returned by TryAcquire when every buffer is in use.
	ErrPoolExhausted = errors.New("bufpool: pool exhausted")
	// ErrClosed is returned when acquiring from a closed pool.
	ErrClosed = errors.New("bufpool: pool is closed")
)

// Config configures a Pool.
type Config struct {
	// Buffers is the maximum number of buffers. Defaults to DefaultBuffers.
	Buffers int `yaml:"buffers"`
	// BufferSize is the size of each buffer in bytes. Defaults to DefaultBufferSize.
	BufferSize int `yaml:"buffer_size"`
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Buffers    int
	BufferSize int
	Created    int64
	InUse      int64
	Idle       int
	Acquired   int64
	Waits      int64
	Exhausted  int64
}

// Buffer is an off-heap buffer leased from a Pool.
type Buffer struct {
	pool     *Pool
	m        *mmap.Mapping
	data     []byte
	released atomic.Bool
}

// Bytes returns the leased region, zeroed at acquisition.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the leased size.
func (b *Buffer) Len() int { return len(b.data) }

// Release returns the buffer to its pool. It is idempotent.
func (b *Buffer) Release() {
	if b == nil || b.released.Swap(true) {
		return
	}
	b.data = nil
	b.pool.put(b)
}

// Pool is a fixed-capacity pool of equally sized off-heap buffers.
type Pool struct {
	size  int
	count int
	rc    *resource.Controller

	slots *semaphore.Weighted

	mu     sync.Mutex
	idle   []*mmap.Mapping
	closed bool

	created   atomic.Int64
	inUse     atomic.Int64
	acquired  atomic.Int64
	waits     atomic.Int64
	exhausted atomic.Int64
}

// New creates a pool. rc may be nil.
func New(cfg Config, rc *resource.Controller) *Pool {
	if cfg.Buffers <= 0 {
		cfg.Buffers = DefaultBuffers
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	return &Pool{
		size:  cfg.BufferSize,
		count: cfg.Buffers,
		rc:    rc,
		slots: semaphore.NewWeighted(int64(cfg.Buffers)),
	}
}

// BufferSize returns the fixed size of each buffer.
func (p *Pool) BufferSize() int { return p.size }

// TryAcquire leases a zeroed buffer of n bytes without waiting.
func (p *Pool) TryAcquire(n int) (*Buffer, error) {
	if err := p.check(n); err != nil {
		return nil, err
	}
	if !p.slots.TryAcquire(1) {
		p.exhausted.Add(1)
		return nil, ErrPoolExhausted
	}
	m, err := p.take(func(size int64) error {
		if !p.rc.TryAcquireMemory(size) {
			return fmt.Errorf("%w: %w", ErrPoolExhausted, resource.ErrMemoryLimitExceeded)
		}
		return nil
	})
	if err != nil {
		p.slots.Release(1)
		return nil, err
	}
	return p.lease(m, n), nil
}

// Acquire leases a zeroed buffer of n bytes, waiting while the pool is
// exhausted.
func (p *Pool) Acquire(ctx context.Context, n int) (*Buffer, error) {
	if err := p.check(n); err != nil {
		return nil, err
	}
	if !p.slots.TryAcquire(1) {
		p.waits.Add(1)
		if err := p.slots.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	m, err := p.take(func(size int64) error {
		return p.rc.AcquireMemory(ctx, size)
	})
	if err != nil {
		p.slots.Release(1)
		return nil, err
	}
	return p.lease(m, n), nil
}

func (p *Pool) check(n int) error {
	if n < 0 || n > p.size {
		return fmt.Errorf("%w: %d > %d", ErrBufferTooSmall, n, p.size)
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return nil
}

// take returns an idle mapping or maps a new one after reserving memory.
func (p *Pool) take(reserve func(int64) error) (*mmap.Mapping, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		m := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return m, nil
	}
	p.mu.Unlock()

	if err := reserve(int64(p.size)); err != nil {
		return nil, err
	}
	m, err := mmap.Anon(p.size)
	if err != nil {
		p.rc.ReleaseMemory(int64(p.size))
		return nil, err
	}
	p.created.Add(1)
	return m, nil
}

func (p *Pool) lease(m *mmap.Mapping, n int) *Buffer {
	data := m.Bytes()[:n]
	clear(data)
	p.inUse.Add(1)
	p.acquired.Add(1)
	return &Buffer{pool: p, m: m, data: data}
}

func (p *Pool) put(b *Buffer) {
	p.inUse.Add(-1)
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.unmap(b.m)
	} else {
		p.idle = append(p.idle, b.m)
		p.mu.Unlock()
	}
	p.slots.Release(1)
}

func (p *Pool) unmap(m *mmap.Mapping) error {
	p.rc.ReleaseMemory(int64(p.size))
	return m.Close()
}

// Close unmaps idle buffers. Buffers still leased are unmapped on Release.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	var errs []error
	for _, m := range idle {
		if err := p.unmap(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	idle := len(p.idle)
	p.mu.Unlock()
	return Stats{
		Buffers:    p.count,
		BufferSize: p.size,
		Created:    p.created.Load(),
		InUse:      p.inUse.Load(),
		Idle:       idle,
		Acquired:   p.acquired.Load(),
		Waits:      p.waits.Load(),
		Exhausted:  p.exhausted.Load(),
	}
}
