package bitset

import (
	"math/bits"

	bbset "github.com/bits-and-blooms/bitset"
)

// WordBits is the number of bits in a bitmap word.
const WordBits = 64

// ExtractLowest isolates the lowest set bit of x (x & -x).
func ExtractLowest(x uint64) uint64 {
	return x & -x
}

// RemoveLowest clears the lowest set bit of x (x & (x-1)).
func RemoveLowest(x uint64) uint64 {
	return x & (x - 1)
}

// WordIndex returns the word holding bit pos.
func WordIndex(pos int) int {
	return pos >> 6
}

// BitMask returns the single-bit mask of pos inside its word.
func BitMask(pos int) uint64 {
	return 1 << (uint(pos) & 63)
}

// WordCount returns the number of words needed for n bits, rounded up to an
// even count so per-level arrays stay 128-bit aligned.
func WordCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (((n - 1) >> 7) + 1) << 1
}

// Test reports whether bit pos is set. Out-of-range positions are unset.
func Test(words []uint64, pos int) bool {
	if pos < 0 {
		return false
	}
	w := pos >> 6
	if w >= len(words) {
		return false
	}
	return words[w]&BitMask(pos) != 0
}

// Set sets bit pos.
func Set(words []uint64, pos int) {
	words[pos>>6] |= BitMask(pos)
}

// PrefixXOR returns, for every bit i, the XOR of bits 0..i of x.
// Applied to a quote word it marks the units between an opening quote
// (inclusive) and its closing quote (exclusive).
func PrefixXOR(x uint64) uint64 {
	x ^= x << 1
	x ^= x << 2
	x ^= x << 4
	x ^= x << 8
	x ^= x << 16
	x ^= x << 32
	return x
}

// RangeMask returns the bits of word w that fall inside the half-open
// position range [start, end).
func RangeMask(w, start, end int) uint64 {
	lo := w << 6
	hi := lo + WordBits
	if end <= lo || start >= hi || start >= end {
		return 0
	}
	mask := ^uint64(0)
	if start > lo {
		mask &= ^uint64(0) << uint(start-lo)
	}
	if end < hi {
		mask &= ^uint64(0) >> uint(hi-end)
	}
	return mask
}

// AppendPositions appends the positions of all set bits of words inside
// [start, end) to dst in ascending order.
func AppendPositions(dst []int, words []uint64, start, end int) []int {
	return AppendPositionsFunc(dst, len(words), func(i int) uint64 { return words[i] }, start, end)
}

// AppendPositionsFunc is AppendPositions over an abstract word source, so
// stores that do not hold a []uint64 share the same extraction loop.
func AppendPositionsFunc(dst []int, nwords int, word func(int) uint64, start, end int) []int {
	if start < 0 {
		start = 0
	}
	if limit := nwords << 6; end > limit {
		end = limit
	}
	if start >= end {
		return dst
	}
	last := (end - 1) >> 6
	for w := start >> 6; w <= last; w++ {
		x := word(w) & RangeMask(w, start, end)
		base := w << 6
		for x != 0 {
			dst = append(dst, base+bits.TrailingZeros64(ExtractLowest(x)))
			x = RemoveLowest(x)
		}
	}
	return dst
}

// PrevSet returns the highest set bit strictly below pos, or -1.
func PrevSet(words []uint64, pos int) int {
	if pos <= 0 {
		return -1
	}
	pos--
	w := pos >> 6
	if w >= len(words) {
		w = len(words) - 1
		pos = len(words)<<6 - 1
	}
	if w < 0 {
		return -1
	}
	x := words[w] & (^uint64(0) >> uint(63-(pos&63)))
	for {
		if x != 0 {
			return w<<6 + 63 - bits.LeadingZeros64(x)
		}
		w--
		if w < 0 {
			return -1
		}
		x = words[w]
	}
}

// Count returns the number of set bits.
func Count(words []uint64) int {
	if len(words) == 0 {
		return 0
	}
	return int(bbset.From(words).Count())
}

// ForEach calls fn for every set bit in ascending order, stopping early when
// fn returns false. It walks the words through bits-and-blooms NextSet and
// serves as the reference iteration for AppendPositions.
func ForEach(words []uint64, fn func(pos int) bool) {
	if len(words) == 0 {
		return
	}
	b := bbset.From(words)
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		if !fn(int(i)) {
			return
		}
	}
}
