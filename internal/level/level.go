package level

import (
	"math/bits"
	"sync"

	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/scan"
)

// Sink receives the colon words of each level.
type Sink interface {
	// Levels returns the number of levels the sink stores (maxNesting).
	Levels() int
	// Or merges v into word w of level l.
	Or(l, w int, v uint64)
}

// Stats summarizes one classification pass.
type Stats struct {
	// MaxDepth is the deepest object depth that claimed a colon.
	MaxDepth int
	// Dropped counts colons at depth >= Levels().
	Dropped int
	// UnmatchedOpen counts '{' left on the stack at the end.
	UnmatchedOpen int
	// UnmatchedClose counts '}' seen with an empty stack.
	UnmatchedClose int
}

var stackPool = sync.Pool{
	New: func() any {
		s := make([]int, 0, 32)
		return &s
	},
}

// Classify distributes the colons of b into sink by nesting depth.
// b.Colon is consumed: on return it holds only unclaimed colons.
func Classify(b *scan.Bitmaps, sink Sink) Stats {
	sp := stackPool.Get().(*[]int)
	stack := (*sp)[:0]
	defer func() {
		*sp = stack[:0]
		stackPool.Put(sp)
	}()

	levels := sink.Levels()
	var st Stats

	for w := range b.LBrace {
		left, right := b.LBrace[w], b.RBrace[w]
		for left|right != 0 {
			lb := bitset.ExtractLowest(left)
			rb := bitset.ExtractLowest(right)
			if lb != 0 && (rb == 0 || lb < rb) {
				stack = append(stack, w<<6+bits.TrailingZeros64(lb))
				left = bitset.RemoveLowest(left)
				continue
			}
			right = bitset.RemoveLowest(right)
			if len(stack) == 0 {
				st.UnmatchedClose++
				continue
			}
			l := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r := w<<6 + bits.TrailingZeros64(rb)

			depth := len(stack)
			n := claim(b.Colon, l, r, depth, levels, sink)
			if n == 0 {
				continue
			}
			if depth >= levels {
				st.Dropped += n
			} else if depth > st.MaxDepth {
				st.MaxDepth = depth
			}
		}
	}

	st.UnmatchedOpen = len(stack)
	return st
}

// claim moves the colons strictly between l and r into level depth and
// returns how many it moved (or dropped).
func claim(colon []uint64, l, r, depth, levels int, sink Sink) int {
	n := 0
	for w := (l + 1) >> 6; w <= r>>6 && w < len(colon); w++ {
		v := colon[w] & bitset.RangeMask(w, l+1, r)
		if v == 0 {
			continue
		}
		colon[w] &^= v
		n += bits.OnesCount64(v)
		if depth < levels {
			sink.Or(depth, w, v)
		}
	}
	return n
}
