package structidx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/structidx/internal/bufpool"
	"github.com/hupe1980/structidx/internal/level"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/pattern"
	"github.com/hupe1980/structidx/internal/record"
	"github.com/hupe1980/structidx/internal/resource"
	"github.com/hupe1980/structidx/internal/scan"
	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/model"
)

// PatternCache remembers, per path, the candidate ordinals of the last
// successful search. It is safe for concurrent use.
type PatternCache = pattern.Cache

// PatternCacheStats is a snapshot of PatternCache counters.
type PatternCacheStats = pattern.Stats

// NewPatternCache returns a cache bounded to capacity paths; 0 means unbounded.
func NewPatternCache(capacity int) *PatternCache { return pattern.New(capacity) }

// BufferPool is a fixed pool of reusable off-heap buffers for StorePooled.
type BufferPool = bufpool.Pool

// BufferPoolStats is a snapshot of BufferPool counters.
type BufferPoolStats = bufpool.Stats

// NewBufferPool creates a pool. limits may be nil.
func NewBufferPool(cfg BufferPoolConfig, limits *ResourceController) *BufferPool {
	return bufpool.New(cfg, limits)
}

// ResourceController tracks pooled memory and document IO budgets.
type ResourceController = resource.Controller

// NewResourceController creates a controller enforcing cfg.
func NewResourceController(cfg ResourceConfig) *ResourceController {
	return resource.NewController(cfg)
}

// levelStore is a leveled list the classifier can write to.
type levelStore interface {
	leveled.List
	level.Sink
}

// Extractor builds structural indexes and resolves paths against them.
//
// An Extractor is safe for concurrent use. The indexes it returns are not.
type Extractor struct {
	opts     options
	pool     *BufferPool
	ownsPool bool
	logEvery rate.Sometimes
}

// NewExtractor creates an Extractor.
//
// Example:
//
//	ex, _ := structidx.NewExtractor()
//	v, ok, _ := ex.FindValueString(`{"a":{"b":1}}`, "a.b")
//	fmt.Println(v, ok) // 1 true
func NewExtractor(optFns ...Option) (*Extractor, error) {
	o := applyOptions(optFns)
	if o.store != StoreArray && o.store != StorePooled {
		return nil, fmt.Errorf("%w: unknown backing store %d", ErrInvalidConfig, o.store)
	}

	e := &Extractor{
		opts:     o,
		pool:     o.pool,
		logEvery: rate.Sometimes{First: 1, Interval: time.Second},
	}
	if o.store == StorePooled && e.pool == nil {
		e.pool = bufpool.New(o.poolConfig, resource.NewController(o.resources))
		e.ownsPool = true
	}
	e.opts.logger = e.opts.logger.WithStore(o.store)
	return e, nil
}

// Close releases the buffer pool if the Extractor created it.
func (e *Extractor) Close() error {
	if e == nil || !e.ownsPool {
		return nil
	}
	return e.pool.Close()
}

// PatternCache returns the cache used for speculative lookups, or nil.
func (e *Extractor) PatternCache() *PatternCache { return e.opts.cache }

// BufferPool returns the pool used by StorePooled, or nil.
func (e *Extractor) BufferPool() *BufferPool { return e.pool }

// Index builds a reusable index over a UTF-8 document.
//
// With max nesting on auto the index holds DefaultIndexLevels levels.
func (e *Extractor) Index(doc []byte) (*Index, error) {
	return e.build(context.Background(), text.Bytes(doc), e.indexLevels())
}

// IndexString is Index for a string document.
func (e *Extractor) IndexString(doc string) (*Index, error) {
	return e.build(context.Background(), text.String(doc), e.indexLevels())
}

// IndexRecord opens a record and returns an index over its payload. The
// embedded index section is used when present; otherwise the payload is
// scanned. The index references rec, which must not be modified while the
// index is open.
func (e *Extractor) IndexRecord(rec []byte, enc RecordEncoding) (*Index, error) {
	r, err := record.Open(rec, enc)
	if err != nil {
		return nil, translateError(err)
	}
	if r.Index != nil {
		return newIndex(e, r.Source, nil, r.Index.Quotes, r.Index.Levels, StoreRecord), nil
	}
	return e.build(context.Background(), r.Source, e.indexLevels())
}

// FindValue returns the scalar at path in a UTF-8 document.
//
// ok is false when the path is absent, the value is an object or array, or
// the document is malformed at that point. Errors are reserved for invalid
// paths, paths deeper than the configured max nesting, and pool failures.
func (e *Extractor) FindValue(doc []byte, path string) (model.Scalar, bool, error) {
	res, err := e.Lookup(doc, path)
	return res.Value, res.Found(), err
}

// FindValueString is FindValue for a string document.
func (e *Extractor) FindValueString(doc, path string) (model.Scalar, bool, error) {
	res, err := e.LookupString(doc, path)
	return res.Value, res.Found(), err
}

// Lookup resolves path in a UTF-8 document and reports the explicit outcome.
func (e *Extractor) Lookup(doc []byte, path string) (model.Result, error) {
	return e.lookupOnce(text.Bytes(doc), path, true)
}

// LookupString is Lookup for a string document.
func (e *Extractor) LookupString(doc, path string) (model.Result, error) {
	return e.lookupOnce(text.String(doc), path, true)
}

// FindValueWithoutPattern resolves path with a full search. The pattern
// cache is neither consulted nor updated.
func (e *Extractor) FindValueWithoutPattern(doc []byte, path string) (model.Scalar, bool, error) {
	res, err := e.lookupOnce(text.Bytes(doc), path, false)
	return res.Value, res.Found(), err
}

// FindValueInRecord resolves path in an encoded record.
//
// An embedded index is used when it holds more levels than path has
// segments; otherwise the payload is scanned. The result is identical to
// FindValue on the decoded document.
func (e *Extractor) FindValueInRecord(rec []byte, enc RecordEncoding, path string) (model.Scalar, bool, error) {
	res, err := e.LookupRecord(rec, enc, path)
	return res.Value, res.Found(), err
}

// LookupRecord is Lookup for an encoded record.
func (e *Extractor) LookupRecord(rec []byte, enc RecordEncoding, path string) (model.Result, error) {
	r, err := record.Open(rec, enc)
	if err != nil {
		return model.Result{}, translateError(err)
	}
	if r.Index != nil {
		p, err := model.ParsePath(path)
		if err != nil {
			return model.Result{}, pathError(path, err)
		}
		if p.Len() < r.Index.Levels.Levels() {
			ix := newIndex(e, r.Source, nil, r.Index.Quotes, r.Index.Levels, StoreRecord)
			defer ix.Close()
			return ix.Lookup(path)
		}
	}
	return e.lookupOnce(r.Source, path, true)
}

func (e *Extractor) lookupOnce(src text.Source, path string, cached bool) (model.Result, error) {
	p, err := model.ParsePath(path)
	if err != nil {
		return model.Result{}, pathError(path, err)
	}

	levels := e.opts.maxNesting
	if levels == 0 {
		levels = p.Len() + 1
	}
	if p.Len() >= levels {
		return model.Result{}, &PathError{Path: path, Segments: p.Len(), MaxNesting: levels, cause: ErrPathTooDeep}
	}

	ix, err := e.build(context.Background(), src, levels)
	if err != nil {
		return model.Result{}, err
	}
	defer ix.Close()

	if !cached {
		return ix.search(p), nil
	}
	return ix.resolve(path, p), nil
}

func (e *Extractor) indexLevels() int {
	if e.opts.maxNesting > 0 {
		return e.opts.maxNesting
	}
	return DefaultIndexLevels
}

func (e *Extractor) build(ctx context.Context, src text.Source, levels int) (*Index, error) {
	start := time.Now()
	ix, err := e.classify(ctx, src, levels)
	e.opts.metricsCollector.RecordBuild(src.Len(), time.Since(start), err)
	e.opts.logger.LogBuild(ctx, src.Len(), levels, err)
	return ix, err
}

func (e *Extractor) classify(ctx context.Context, src text.Source, levels int) (*Index, error) {
	bm := scan.Acquire(src.Len())
	scan.Build(src, bm)

	list, store, err := e.allocLevels(ctx, levels, bm.Words())
	if err != nil {
		scan.Release(bm)
		return nil, err
	}

	ix := newIndex(e, src, bm, bm.Quote, list, store)
	ix.stats = level.Classify(bm, list)
	return ix, nil
}

func (e *Extractor) allocLevels(ctx context.Context, levels, words int) (levelStore, BackingStore, error) {
	if e.opts.store != StorePooled {
		return leveled.NewArray(levels, words), StoreArray, nil
	}

	size := leveled.Size(levels, words)
	buf, err := e.lease(ctx, size)
	if err != nil {
		err = translateError(err)
		e.opts.logger.LogPoolExhausted(ctx, size, e.opts.poolFallback, err)
		if e.opts.poolFallback {
			return leveled.NewArray(levels, words), StoreArray, nil
		}
		return nil, 0, err
	}

	lb, err := leveled.NewBuffer(levels, words, buf.Bytes(), buf.Release)
	if err != nil {
		buf.Release()
		return nil, 0, err
	}
	return lb, StorePooled, nil
}

func (e *Extractor) lease(ctx context.Context, size int) (*bufpool.Buffer, error) {
	start := time.Now()
	var (
		buf *bufpool.Buffer
		err error
	)
	if e.opts.poolWait > 0 {
		wctx, cancel := context.WithTimeout(ctx, e.opts.poolWait)
		defer cancel()
		buf, err = e.pool.Acquire(wctx, size)
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", bufpool.ErrPoolExhausted, err)
		}
	} else {
		buf, err = e.pool.TryAcquire(size)
	}
	e.opts.metricsCollector.RecordPoolWait(time.Since(start), err)
	return buf, err
}

// invalidated records a cached pattern that failed to replay.
func (e *Extractor) invalidated(path string, pat model.Pattern) {
	e.opts.metricsCollector.RecordPatternInvalidation()
	e.logEvery.Do(func() {
		e.opts.logger.LogPatternInvalidated(context.Background(), path, pat)
	})
}
