package level

import (
	"strings"
	"testing"

	"github.com/hupe1980/structidx/internal/bitset"
	"github.com/hupe1980/structidx/internal/scan"
	"github.com/hupe1980/structidx/internal/text"
	"github.com/stretchr/testify/assert"
)

type sliceSink struct {
	words [][]uint64
}

func newSliceSink(levels, words int) *sliceSink {
	s := &sliceSink{words: make([][]uint64, levels)}
	for i := range s.words {
		s.words[i] = make([]uint64, words)
	}
	return s
}

func (s *sliceSink) Levels() int           { return len(s.words) }
func (s *sliceSink) Or(l, w int, v uint64) { s.words[l][w] |= v }

func (s *sliceSink) level(l int) []int {
	return bitset.AppendPositions(nil, s.words[l], 0, len(s.words[l])*64)
}

func classify(doc string, levels int) (*sliceSink, Stats) {
	b := &scan.Bitmaps{}
	scan.Build(text.String(doc), b)
	sink := newSliceSink(levels, b.Words())
	return sink, Classify(b, sink)
}

func TestClassifyAssignsInnermostDepth(t *testing.T) {
	doc := `{"a":{"b":1,"c":{"d":2}},"e":3}`
	sink, st := classify(doc, 4)

	assert.Equal(t, []int{4, 28}, sink.level(0))
	assert.Equal(t, []int{9, 15}, sink.level(1))
	assert.Equal(t, []int{20}, sink.level(2))
	assert.Empty(t, sink.level(3))
	assert.Equal(t, 2, st.MaxDepth)
	assert.Zero(t, st.Dropped)
}

func TestClassifyEachColonInExactlyOneLevel(t *testing.T) {
	doc := `{"x":{"y":{"z":{"w":{"v":1}}}},"p":{"q":2},"r":{"s":{"t":3}}}`
	sink, _ := classify(doc, 8)

	seen := map[int]int{}
	for l := 0; l < 8; l++ {
		for _, p := range sink.level(l) {
			seen[p]++
		}
	}
	assert.Len(t, seen, strings.Count(doc, ":"))
	for p, n := range seen {
		assert.Equal(t, 1, n, "colon %d", p)
	}
}

func TestClassifyDropsColonsBeyondMaxNesting(t *testing.T) {
	doc := `{"a":{"b":{"c":1}}}`
	sink, st := classify(doc, 2)

	assert.Equal(t, []int{4}, sink.level(0))
	assert.Equal(t, []int{9}, sink.level(1))
	assert.Equal(t, 1, st.Dropped)
}

func TestClassifyUnbalancedBraces(t *testing.T) {
	t.Run("extra close", func(t *testing.T) {
		sink, st := classify(`}}{"a":1}}`, 2)
		assert.Equal(t, []int{6}, sink.level(0))
		assert.Equal(t, 3, st.UnmatchedClose)
	})

	t.Run("truncated", func(t *testing.T) {
		sink, st := classify(`{"a":{"b":1}`, 2)
		assert.Empty(t, sink.level(0))
		assert.Equal(t, []int{9}, sink.level(1), "inner pair is closed")
		assert.Equal(t, 1, st.UnmatchedOpen)
	})

	t.Run("only braces", func(t *testing.T) {
		assert.NotPanics(t, func() { classify(strings.Repeat("}", 200)+strings.Repeat("{", 200), 3) })
	})
}

func TestClassifyIgnoresBracesInStrings(t *testing.T) {
	doc := `{"a":"}{","b":{"c":"{"}}`
	sink, _ := classify(doc, 3)

	assert.Equal(t, []int{4, 13}, sink.level(0))
	assert.Equal(t, []int{18}, sink.level(1))
}

func TestClassifySpansWords(t *testing.T) {
	pad := strings.Repeat(" ", 100)
	doc := `{"a":{` + pad + `"b":1` + pad + `},` + pad + `"c":2}`
	sink, _ := classify(doc, 3)

	assert.Equal(t, []int{4, strings.Index(doc, `"c"`) + 3}, sink.level(0))
	assert.Equal(t, []int{strings.Index(doc, `"b"`) + 3}, sink.level(1))
}
