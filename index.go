package structidx

import (
	"context"
	"time"

	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/level"
	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/match"
	"github.com/hupe1980/structidx/internal/scan"
	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/internal/value"
	"github.com/hupe1980/structidx/model"
)

// Index is the structural index of one document.
//
// An Index is built once and answers any number of path lookups. It is not
// safe for concurrent use. Close releases pooled memory and must be called
// when the index is no longer needed.
type Index struct {
	ex      *Extractor
	src     text.Source
	bm      *scan.Bitmaps // nil for indexes embedded in records
	quotes  []uint64
	levels  leveled.List
	matcher *match.Matcher
	stats   level.Stats
	store   BackingStore
	closed  bool
}

func newIndex(ex *Extractor, src text.Source, bm *scan.Bitmaps, quotes []uint64, levels leveled.List, store BackingStore) *Index {
	return &Index{
		ex:      ex,
		src:     src,
		bm:      bm,
		quotes:  quotes,
		levels:  levels,
		matcher: match.New(src, levels, quotes),
		store:   store,
	}
}

// Levels returns the number of nesting levels held by the index.
func (ix *Index) Levels() int { return ix.levels.Levels() }

// Len returns the document length in code units.
func (ix *Index) Len() int { return ix.src.Len() }

// Store returns the store that holds the leveled bitmaps.
func (ix *Index) Store() BackingStore { return ix.store }

// FindPattern searches path without consulting the pattern cache and
// returns the candidate ordinals it matched.
func (ix *Index) FindPattern(path string) (model.Pattern, bool, error) {
	p, err := ix.path(path)
	if err != nil {
		return nil, false, err
	}
	pat, _, ok := ix.matcher.FindPattern(p)
	return pat, ok, nil
}

// FindValueByPattern replays a previously found pattern for path.
//
// valid is false when the pattern does not fit this document; the caller
// should fall back to a full search.
func (ix *Index) FindValueByPattern(path string, pat model.Pattern) (res model.Result, valid bool, err error) {
	p, err := ix.path(path)
	if err != nil {
		return model.Result{}, false, err
	}
	colon, ok := ix.matcher.FindValueByPattern(p, pat)
	if !ok {
		return model.Result{Outcome: model.OutcomeNotFound}, false, nil
	}
	return ix.read(colon, true), true, nil
}

// FindValue returns the scalar at path. ok is false when the path is absent,
// the value is an object or array, or the document is malformed there.
func (ix *Index) FindValue(path string) (model.Scalar, bool, error) {
	res, err := ix.Lookup(path)
	if err != nil {
		return model.Scalar{}, false, err
	}
	return res.Value, res.Found(), nil
}

// FindValueWithoutPattern is FindValue without cached patterns.
// The cache is neither consulted nor updated.
func (ix *Index) FindValueWithoutPattern(path string) (model.Scalar, bool, error) {
	p, err := ix.path(path)
	if err != nil {
		return model.Scalar{}, false, err
	}
	res := ix.search(p)
	return res.Value, res.Found(), nil
}

// Lookup resolves path and reports the explicit outcome.
//
// A cached pattern for path is replayed first. If it no longer fits the
// document the lookup falls back to a full search and refreshes the cache.
func (ix *Index) Lookup(path string) (model.Result, error) {
	p, err := ix.path(path)
	if err != nil {
		return model.Result{}, err
	}
	return ix.resolve(path, p), nil
}

func (ix *Index) resolve(path string, p model.Path) model.Result {
	start := time.Now()
	res := ix.lookup(p)
	ix.ex.opts.metricsCollector.RecordLookup(res.Outcome, res.Speculative, time.Since(start))
	ix.ex.opts.logger.LogLookup(context.Background(), path, res.Outcome, res.Speculative)
	return res
}

func (ix *Index) lookup(p model.Path) model.Result {
	cache := ix.ex.opts.cache
	if cache == nil {
		return ix.search(p)
	}

	key := p.String()
	if ix.ex.opts.speculate {
		if pat, ok := cache.Get(key); ok {
			if colon, ok := ix.matcher.FindValueByPattern(p, pat); ok {
				return ix.read(colon, true)
			}
			ix.ex.invalidated(key, pat)
		}
	}

	pat, colon, ok := ix.matcher.FindPattern(p)
	if !ok {
		return model.Result{Outcome: model.OutcomeNotFound}
	}
	cache.Put(key, pat)
	return ix.read(colon, false)
}

// search resolves p without the pattern cache.
func (ix *Index) search(p model.Path) model.Result {
	_, colon, ok := ix.matcher.FindPattern(p)
	if !ok {
		return model.Result{Outcome: model.OutcomeNotFound}
	}
	return ix.read(colon, false)
}

func (ix *Index) read(colon int, speculative bool) model.Result {
	v, outcome := value.Read(ix.src, colon)
	if outcome != model.OutcomeFound {
		v = model.Scalar{}
	}
	return model.Result{Outcome: outcome, Value: v, Speculative: speculative}
}

func (ix *Index) path(path string) (model.Path, error) {
	if ix.closed {
		return model.Path{}, ErrClosed
	}
	p, err := model.ParsePath(path)
	if err != nil {
		return model.Path{}, pathError(path, err)
	}
	if n := ix.levels.Levels(); p.Len() >= n {
		return model.Path{}, &PathError{Path: path, Segments: p.Len(), MaxNesting: n, cause: ErrPathTooDeep}
	}
	return p, nil
}

// Explanation describes the structure an Index extracted from a document.
type Explanation struct {
	Units int    `json:"units"`
	Words int    `json:"words"`
	Store string `json:"store"`

	Quotes      int `json:"quotes"`
	LeftBraces  int `json:"left_braces"`
	RightBraces int `json:"right_braces"`
	Backslashes int `json:"backslashes"`

	Levels []LevelExplanation `json:"levels"`

	MaxDepth       int `json:"max_depth"`
	Dropped        int `json:"dropped"`
	Unclaimed      int `json:"unclaimed"`
	UnmatchedOpen  int `json:"unmatched_open"`
	UnmatchedClose int `json:"unmatched_close"`
}

// LevelExplanation lists the colons of one nesting level.
type LevelExplanation struct {
	Level  int      `json:"level"`
	Count  int      `json:"count"`
	Colons []int    `json:"colons"`
	Keys   []string `json:"keys"`
}

// Explain reports the per-level colon offsets and keys of the index.
// Brace and backslash counts are zero for indexes embedded in records.
func (ix *Index) Explain() (Explanation, error) {
	if ix.closed {
		return Explanation{}, ErrClosed
	}

	e := Explanation{
		Units:          ix.src.Len(),
		Words:          ix.levels.Words(),
		Store:          ix.store.String(),
		Quotes:         bitset.Count(ix.quotes),
		MaxDepth:       ix.stats.MaxDepth,
		Dropped:        ix.stats.Dropped,
		UnmatchedOpen:  ix.stats.UnmatchedOpen,
		UnmatchedClose: ix.stats.UnmatchedClose,
	}
	if ix.bm != nil {
		e.LeftBraces = ix.bm.Count(scan.LeftBrace)
		e.RightBraces = ix.bm.Count(scan.RightBrace)
		e.Backslashes = ix.bm.Count(scan.Backslash)
		e.Unclaimed = ix.bm.Count(scan.Colon)
	}

	for lv := range ix.levels.Levels() {
		colons := ix.levels.Colons(lv, 0, ix.src.Len(), nil)
		le := LevelExplanation{
			Level:  lv,
			Count:  len(colons),
			Colons: colons,
			Keys:   make([]string, len(colons)),
		}
		for i, c := range colons {
			le.Keys[i], _ = ix.matcher.Key(c)
		}
		e.Levels = append(e.Levels, le)
	}
	return e, nil
}

// Close releases the index. It is safe to call Close more than once.
func (ix *Index) Close() error {
	if ix == nil || ix.closed {
		return nil
	}
	ix.closed = true
	err := ix.levels.Close()
	if ix.bm != nil {
		scan.Release(ix.bm)
		ix.bm = nil
	}
	ix.quotes = nil
	return err
}
