package testutil

import (
	"bytes"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s; s=1.0 gives standard Zipf, larger s skews harder.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}
	return n - 1
}

// DocOptions shapes generated documents.
type DocOptions struct {
	// MaxDepth is the deepest object nesting. Defaults to 4.
	MaxDepth int
	// MaxKeys is the maximum number of keys per object. Defaults to 6.
	MaxKeys int
	// Keys is the key vocabulary. Defaults to DefaultKeys.
	Keys []string
	// Indent pretty-prints a share of documents in [0, 1].
	Indent float64
}

// DefaultKeys is a vocabulary with shared prefixes, escapes and non-ASCII
// text. None of the keys contain a dot.
var DefaultKeys = []string{
	"a", "a2", "ab", "b", "id", "name", "user", "address", "city", "zip",
	"tags", "q\"uote", `back\slash`, "tab\tkey", "ünï", "<html>", "日本",
}

// Document is a generated JSON object together with its leaves.
type Document struct {
	JSON []byte
	// Value is the decoded form of JSON.
	Value map[string]any
	// Leaves maps every dotted path reachable through objects only to
	// its scalar value (nil, bool, float64 or string).
	Leaves map[string]any
	// Containers lists dotted paths that end at an object or array.
	Containers []string
}

// Paths returns the leaf paths in sorted order.
func (d *Document) Paths() []string {
	paths := make([]string, 0, len(d.Leaves))
	for p := range d.Leaves {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Document generates a random JSON object.
func (r *RNG) Document(opts DocOptions) *Document {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 4
	}
	if opts.MaxKeys <= 0 {
		opts.MaxKeys = 6
	}
	if len(opts.Keys) == 0 {
		opts.Keys = DefaultKeys
	}

	r.mu.Lock()
	g := &generator{rand: r.rand, opts: opts, leaves: make(map[string]any)}
	root := g.object(nil, 0)
	indent := r.rand.Float64() < opts.Indent
	r.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(root, "", "  ")
	} else {
		data, err = json.Marshal(root)
	}
	if err != nil {
		panic(err)
	}
	return &Document{JSON: data, Value: root, Leaves: g.leaves, Containers: g.containers}
}

// Documents generates n documents.
func (r *RNG) Documents(n int, opts DocOptions) []*Document {
	docs := make([]*Document, n)
	for i := range docs {
		docs[i] = r.Document(opts)
	}
	return docs
}

type generator struct {
	rand       *rand.Rand
	opts       DocOptions
	leaves     map[string]any
	containers []string
}

func (g *generator) object(path []string, depth int) map[string]any {
	obj := make(map[string]any)
	n := 1 + g.rand.Intn(g.opts.MaxKeys)
	for range n {
		k := g.opts.Keys[g.rand.Intn(len(g.opts.Keys))]
		if _, dup := obj[k]; dup {
			continue
		}
		p := append(append([]string(nil), path...), k)
		obj[k] = g.value(p, depth)
	}
	return obj
}

func (g *generator) value(path []string, depth int) any {
	key := strings.Join(path, ".")
	switch roll := g.rand.Intn(10); {
	case roll < 2 && depth+1 < g.opts.MaxDepth:
		g.containers = append(g.containers, key)
		return g.object(path, depth+1)
	case roll < 3:
		g.containers = append(g.containers, key)
		return g.array(depth)
	default:
		v := g.scalar()
		g.leaves[key] = v
		return v
	}
}

// array holds scalars and objects that are never reachable by path.
func (g *generator) array(depth int) []any {
	arr := make([]any, g.rand.Intn(4))
	for i := range arr {
		if g.rand.Intn(2) == 0 && depth+1 < g.opts.MaxDepth {
			sub := &generator{rand: g.rand, opts: g.opts, leaves: make(map[string]any)}
			arr[i] = sub.object(nil, depth+1)
		} else {
			arr[i] = g.scalar()
		}
	}
	return arr
}

func (g *generator) scalar() any {
	switch g.rand.Intn(6) {
	case 0:
		return nil
	case 1:
		return g.rand.Intn(2) == 0
	case 2:
		return float64(g.rand.Intn(2000) - 1000)
	case 3:
		return float64(g.rand.Intn(1<<20)) / 64
	case 4:
		return math.Ldexp(float64(1+g.rand.Intn(1000)), 20+g.rand.Intn(40))
	default:
		return g.text()
	}
}

var fragments = []string{
	"x", "hello", " ", "\"", "\\", "\\\"", "{", "}", ":", ",", "\n", "é", "€", "𝄞", "<", "&", " ",
}

func (g *generator) text() string {
	var b bytes.Buffer
	for range g.rand.Intn(6) {
		b.WriteString(fragments[g.rand.Intn(len(fragments))])
	}
	return b.String()
}
