package scan

import (
	"sync"

	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/text"
)

// Kind selects one of the character-class bitmaps.
type Kind int

const (
	Colon Kind = iota
	Quote
	LeftBrace
	RightBrace
	Backslash
)

func (k Kind) String() string {
	switch k {
	case Colon:
		return "colon"
	case Quote:
		return "quote"
	case LeftBrace:
		return "lbrace"
	case RightBrace:
		return "rbrace"
	case Backslash:
		return "backslash"
	default:
		return "unknown"
	}
}

// Bitmaps holds one bit per code unit for each structural character.
type Bitmaps struct {
	Colon     []uint64
	Quote     []uint64
	LBrace    []uint64
	RBrace    []uint64
	Backslash []uint64

	// Units is the document length the bitmaps were sized for.
	Units int
}

// Reset sizes every bitmap for n code units and clears it.
func (b *Bitmaps) Reset(n int) {
	words := bitset.WordCount(n)
	b.Colon = resize(b.Colon, words)
	b.Quote = resize(b.Quote, words)
	b.LBrace = resize(b.LBrace, words)
	b.RBrace = resize(b.RBrace, words)
	b.Backslash = resize(b.Backslash, words)
	b.Units = n
}

// Words returns the word count of each bitmap.
func (b *Bitmaps) Words() int { return len(b.Colon) }

// Get returns the bitmap of the given kind.
func (b *Bitmaps) Get(k Kind) []uint64 {
	switch k {
	case Colon:
		return b.Colon
	case Quote:
		return b.Quote
	case LeftBrace:
		return b.LBrace
	case RightBrace:
		return b.RBrace
	case Backslash:
		return b.Backslash
	default:
		return nil
	}
}

// Count returns the number of set bits of the given kind.
func (b *Bitmaps) Count(k Kind) int {
	return bitset.Count(b.Get(k))
}

func resize(s []uint64, n int) []uint64 {
	if cap(s) < n {
		return make([]uint64, n)
	}
	s = s[:n]
	clear(s)
	return s
}

var pool = sync.Pool{
	New: func() any { return &Bitmaps{} },
}

// Acquire returns pooled bitmaps sized for n units.
func Acquire(n int) *Bitmaps {
	b := pool.Get().(*Bitmaps)
	b.Reset(n)
	return b
}

// Release returns bitmaps to the pool.
func Release(b *Bitmaps) {
	if b == nil {
		return
	}
	pool.Put(b)
}

// Scan records the five structural bitmaps of src into b. b is reset first.
func Scan(src text.Source, b *Bitmaps) {
	b.Reset(src.Len())
	switch s := src.(type) {
	case text.String:
		scanUnits(s, b)
	case text.Bytes:
		scanUnits(s, b)
	default:
		n := src.Len()
		for i := 0; i < n; i++ {
			mark(b, i, src.At(i))
		}
	}
}

func scanUnits[T ~string | ~[]byte](s T, b *Bitmaps) {
	for i := 0; i < len(s); i++ {
		mark(b, i, uint16(s[i]))
	}
}

func mark(b *Bitmaps, i int, c uint16) {
	switch c {
	case ':':
		b.Colon[i>>6] |= bitset.BitMask(i)
	case '"':
		b.Quote[i>>6] |= bitset.BitMask(i)
	case '{':
		b.LBrace[i>>6] |= bitset.BitMask(i)
	case '}':
		b.RBrace[i>>6] |= bitset.BitMask(i)
	case '\\':
		b.Backslash[i>>6] |= bitset.BitMask(i)
	}
}

// Build scans src and applies both masking passes, leaving b ready for level
// classification.
func Build(src text.Source, b *Bitmaps) {
	Scan(src, b)
	MaskEscapedQuotes(b.Backslash, b.Quote)
	MaskStrings(b)
}
