package predicate

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/docstore"
)

// Evaluator runs a Predicate over many documents in parallel.
// Every worker builds its own Index; the Extractor's pattern cache is shared,
// so the first document warms the patterns for the rest.
type Evaluator struct {
	ex          *structidx.Extractor
	parallelism int
	limits      *structidx.ResourceController
	records     bool
	encoding    structidx.RecordEncoding
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithParallelism bounds the number of documents evaluated at once.
// Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithResourceController throttles Scan reads through the controller's IO limit.
func WithResourceController(rc *structidx.ResourceController) Option {
	return func(e *Evaluator) { e.limits = rc }
}

// WithRecords treats stored documents as encoded records.
func WithRecords(enc structidx.RecordEncoding) Option {
	return func(e *Evaluator) {
		e.records = true
		e.encoding = enc
	}
}

// NewEvaluator creates an Evaluator backed by ex.
func NewEvaluator(ex *structidx.Extractor, optFns ...Option) *Evaluator {
	e := &Evaluator{
		ex:          ex,
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(e)
	}
	return e
}

// Match indexes one document and evaluates p against it.
func (e *Evaluator) Match(doc []byte, p Predicate) (bool, error) {
	var (
		ix  *structidx.Index
		err error
	)
	if e.records {
		ix, err = e.ex.IndexRecord(doc, e.encoding)
	} else {
		ix, err = e.ex.Index(doc)
	}
	if err != nil {
		return false, err
	}
	defer ix.Close()

	return p.Match(ix)
}

// Filter returns the positions in docs that match p.
func (e *Evaluator) Filter(ctx context.Context, docs [][]byte, p Predicate) (*roaring.Bitmap, error) {
	return e.run(ctx, len(docs), p, func(_ context.Context, i int) (bool, error) {
		return e.Match(docs[i], p)
	})
}

// Scan fetches names from store and returns the positions in names that match p.
func (e *Evaluator) Scan(ctx context.Context, store docstore.Store, names []string, p Predicate) (*roaring.Bitmap, error) {
	return e.run(ctx, len(names), p, func(ctx context.Context, i int) (bool, error) {
		doc, err := store.Get(ctx, names[i])
		if err != nil {
			return false, fmt.Errorf("predicate: get %s: %w", names[i], err)
		}
		defer doc.Close()

		data := doc.Bytes()
		if err := e.limits.AcquireIO(ctx, len(data)); err != nil {
			return false, err
		}

		ok, err := e.Match(data, p)
		if err != nil {
			return false, fmt.Errorf("predicate: %s: %w", names[i], err)
		}
		return ok, nil
	})
}

func (e *Evaluator) run(ctx context.Context, n int, p Predicate, fn func(context.Context, int) (bool, error)) (*roaring.Bitmap, error) {
	if p == nil {
		return nil, fmt.Errorf("predicate: nil predicate")
	}

	var (
		mu     sync.Mutex
		result = roaring.New()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := fn(gctx, i)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				result.Add(uint32(i))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
