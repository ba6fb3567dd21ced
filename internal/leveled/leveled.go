package leveled

import (
	"encoding/binary"
	"errors"
	"sync/atomic"

	"github.com/hupe1980/structidx/internal/bitset"
)

// ErrShortBuffer is returned when a buffer cannot hold levels*words words.
var ErrShortBuffer = errors.New("leveled: buffer too short")

// List is a queryable view over per-level colon bitmaps.
type List interface {
	// Levels returns the number of levels (maxNesting).
	Levels() int
	// Words returns the number of words per level.
	Words() int
	// Word returns word w of level l.
	Word(l, w int) uint64
	// Colons appends the colon offsets of level l within [start, end) to dst
	// in ascending order.
	Colons(l, start, end int, dst []int) []int
	// Close releases any backing memory. It is idempotent.
	Close() error
}

// Size returns the number of bytes a Buffer needs for levels x words.
func Size(levels, words int) int {
	return levels * words * 8
}

// Array is a List backed by a heap slice.
type Array struct {
	levels int
	words  int
	data   []uint64
}

// NewArray allocates an empty Array.
func NewArray(levels, words int) *Array {
	return &Array{
		levels: levels,
		words:  words,
		data:   make([]uint64, levels*words),
	}
}

func (a *Array) Levels() int { return a.levels }

func (a *Array) Words() int { return a.words }

func (a *Array) Word(l, w int) uint64 { return a.data[l*a.words+w] }

// Or merges v into word w of level l.
func (a *Array) Or(l, w int, v uint64) { a.data[l*a.words+w] |= v }

func (a *Array) Colons(l, start, end int, dst []int) []int {
	if l < 0 || l >= a.levels {
		return dst
	}
	off := l * a.words
	return bitset.AppendPositions(dst, a.data[off:off+a.words], start, end)
}

func (a *Array) Close() error { return nil }

// Buffer is a List backed by little-endian words in a byte slice.
type Buffer struct {
	levels  int
	words   int
	data    []byte
	release func()
	closed  atomic.Bool
}

// NewBuffer wraps data as a Buffer. release, if non-nil, runs once on Close.
// The caller must hand over zeroed memory when the buffer is to be filled
// with Or.
func NewBuffer(levels, words int, data []byte, release func()) (*Buffer, error) {
	need := Size(levels, words)
	if len(data) < need {
		return nil, ErrShortBuffer
	}
	return &Buffer{
		levels:  levels,
		words:   words,
		data:    data[:need],
		release: release,
	}, nil
}

func (b *Buffer) Levels() int { return b.levels }

func (b *Buffer) Words() int { return b.words }

func (b *Buffer) Word(l, w int) uint64 {
	return binary.LittleEndian.Uint64(b.data[(l*b.words+w)*8:])
}

// Or merges v into word w of level l.
func (b *Buffer) Or(l, w int, v uint64) {
	p := b.data[(l*b.words+w)*8:]
	binary.LittleEndian.PutUint64(p, binary.LittleEndian.Uint64(p)|v)
}

func (b *Buffer) Colons(l, start, end int, dst []int) []int {
	if l < 0 || l >= b.levels {
		return dst
	}
	off := l * b.words
	return bitset.AppendPositionsFunc(dst, b.words, func(w int) uint64 {
		return binary.LittleEndian.Uint64(b.data[(off+w)*8:])
	}, start, end)
}

// Bytes returns the encoded words.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	if b.release != nil {
		b.release()
	}
	b.data = nil
	return nil
}

// AppendLE appends the words of every level of l to dst in Buffer layout.
func AppendLE(dst []byte, l List) []byte {
	for lv := 0; lv < l.Levels(); lv++ {
		for w := 0; w < l.Words(); w++ {
			dst = binary.LittleEndian.AppendUint64(dst, l.Word(lv, w))
		}
	}
	return dst
}

// Count returns the number of colons stored at level l.
func Count(l List, lv int) int {
	n := 0
	for w := 0; w < l.Words(); w++ {
		x := l.Word(lv, w)
		for x != 0 {
			x = bitset.RemoveLowest(x)
			n++
		}
	}
	return n
}
