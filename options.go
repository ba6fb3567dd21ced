package structidx

import (
	"fmt"
	"log/slog"
	"time"
)

// BackingStore selects where the leveled colon bitmaps of an index live.
type BackingStore uint8

const (
	// StoreArray keeps the leveled bitmaps in a garbage-collected slice.
	StoreArray BackingStore = iota
	// StorePooled leases an off-heap buffer from a BufferPool per index.
	StorePooled
	// StoreRecord marks an index read from the section embedded in a record.
	StoreRecord
)

func (s BackingStore) String() string {
	switch s {
	case StoreArray:
		return "array"
	case StorePooled:
		return "pooled"
	case StoreRecord:
		return "record"
	default:
		return "unknown"
	}
}

// ParseBackingStore maps "array" or "pooled" to a BackingStore.
func ParseBackingStore(s string) (BackingStore, error) {
	switch s {
	case "", "array":
		return StoreArray, nil
	case "pooled":
		return StorePooled, nil
	default:
		return 0, fmt.Errorf("%w: unknown backing store %q", ErrInvalidConfig, s)
	}
}

// DefaultIndexLevels is the number of levels built by Extractor.Index when
// max nesting is left on auto.
const DefaultIndexLevels = 16

type options struct {
	maxNesting       int
	store            BackingStore
	cache            *PatternCache
	cacheSet         bool
	speculate        bool
	pool             *BufferPool
	poolConfig       BufferPoolConfig
	resources        ResourceConfig
	poolWait         time.Duration
	poolFallback     bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Extractor.
type Option func(*options)

// WithMaxNesting fixes the number of levels built per index.
//
// Paths with n or more segments are rejected with ErrPathTooDeep. With
// n <= 0 (the default) single lookups size the index to the path, and
// Extractor.Index builds DefaultIndexLevels levels.
func WithMaxNesting(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxNesting = n
	}
}

// WithBackingStore selects the leveled bitmap store.
//
// StorePooled requires a pool; if none is configured via WithBufferPool
// the Extractor creates one with default settings.
func WithBackingStore(s BackingStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithPatternCache shares a pattern cache between extractors.
//
// Pass nil to disable speculative lookups entirely.
func WithPatternCache(c *PatternCache) Option {
	return func(o *options) {
		o.cache = c
		o.cacheSet = true
		if c == nil {
			o.speculate = false
		}
	}
}

// WithSpeculation enables or disables replaying cached patterns.
// It is enabled by default. Successful searches still populate the cache.
func WithSpeculation(enabled bool) Option {
	return func(o *options) {
		o.speculate = enabled
	}
}

// WithBufferPool sets the pool used by StorePooled.
//
// Example:
//
//	pool := structidx.NewBufferPool(structidx.BufferPoolConfig{Buffers: 64}, nil)
//	defer pool.Close()
//	ex, _ := structidx.NewExtractor(
//	    structidx.WithBackingStore(structidx.StorePooled),
//	    structidx.WithBufferPool(pool),
//	)
func WithBufferPool(p *BufferPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithPoolWait makes pooled builds wait up to d for a free buffer instead of
// failing with ErrPoolExhausted immediately.
func WithPoolWait(d time.Duration) Option {
	return func(o *options) {
		o.poolWait = d
	}
}

// WithPoolFallback makes pooled builds fall back to StoreArray when the pool
// is exhausted or the index does not fit a buffer.
func WithPoolFallback(enabled bool) Option {
	return func(o *options) {
		o.poolFallback = enabled
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &structidx.BasicMetricsCollector{}
//	ex, _ := structidx.NewExtractor(structidx.WithMetricsCollector(metrics))
//	// ... use ex ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, speculative hits: %d\n", stats.LookupCount, stats.SpeculativeHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		speculate:        true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if !o.cacheSet {
		o.cache = NewPatternCache(0)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
