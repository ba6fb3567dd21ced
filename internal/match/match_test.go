package match

import (
	"testing"

	"github.com/hupe1980/structidx/internal/leveled"
	"github.com/hupe1980/structidx/internal/level"
	"github.com/hupe1980/structidx/internal/scan"
	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/internal/value"
	"github.com/hupe1980/structidx/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatcher(t *testing.T, doc string, levels int) *Matcher {
	t.Helper()
	src := text.String(doc)
	b := &scan.Bitmaps{}
	scan.Build(src, b)
	list := leveled.NewArray(levels, b.Words())
	level.Classify(b, list)
	return New(src, list, b.Quote)
}

func lookup(t *testing.T, m *Matcher, path string) (model.Scalar, bool) {
	t.Helper()
	_, colon, ok := m.FindPattern(model.MustParsePath(path))
	if !ok {
		return model.Scalar{}, false
	}
	v, outcome := value.Read(m.src, colon)
	require.Equal(t, model.OutcomeFound, outcome)
	return v, true
}

func TestFindPatternScenarios(t *testing.T) {
	m := newMatcher(t, `{"a":{"b":1},"c":2}`, 3)

	v, ok := lookup(t, m, "a.b")
	require.True(t, ok)
	assert.Equal(t, model.Number(1), v)

	v, ok = lookup(t, m, "c")
	require.True(t, ok)
	assert.Equal(t, model.Number(2), v)

	_, ok = lookup(t, m, "a.z")
	assert.False(t, ok)
}

func TestFindPatternSharedPrefixKeys(t *testing.T) {
	m := newMatcher(t, `{"a":"v1","a2":{"b1":"v2"}}`, 3)

	p, _, ok := m.FindPattern(model.MustParsePath("a2.b1"))
	require.True(t, ok)
	assert.Equal(t, model.Pattern{1, 0}, p)

	v, ok := lookup(t, m, "a2.b1")
	require.True(t, ok)
	assert.Equal(t, model.String("v2"), v)

	v, ok = lookup(t, m, "a")
	require.True(t, ok)
	assert.Equal(t, model.String("v1"), v)
}

func TestFindPatternNested(t *testing.T) {
	doc := `{"a1":"x","a3":{"c0":0,"c1":{"d1":"u","d2":2},"c2":true},"a4":null}`
	m := newMatcher(t, doc, 4)

	p, _, ok := m.FindPattern(model.MustParsePath("a3.c1.d2"))
	require.True(t, ok)
	assert.Equal(t, model.Pattern{1, 1, 1}, p)

	v, ok := lookup(t, m, "a3.c2")
	require.True(t, ok)
	assert.Equal(t, model.Bool(true), v)

	v, ok = lookup(t, m, "a4")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	// d2 exists, but not under c2
	_, ok = lookup(t, m, "a3.c2.d2")
	assert.False(t, ok)
}

func TestFindPatternLastKeyDoesNotLeakIntoSiblings(t *testing.T) {
	doc := `{"p":{"a":{"z":1}},"q":{"a":{"k":5}}}`
	m := newMatcher(t, doc, 4)

	_, ok := lookup(t, m, "p.a.k")
	assert.False(t, ok)

	v, ok := lookup(t, m, "q.a.k")
	require.True(t, ok)
	assert.Equal(t, model.Number(5), v)
}

func TestFindPatternDoesNotDescendIntoArrays(t *testing.T) {
	m := newMatcher(t, `{"a":[{"k":1}],"b":{"k":2}}`, 3)

	_, ok := lookup(t, m, "a.k")
	assert.False(t, ok)

	v, ok := lookup(t, m, "b.k")
	require.True(t, ok)
	assert.Equal(t, model.Number(2), v)
}

func TestFindPatternWhitespace(t *testing.T) {
	doc := "{ \"name\" :\t\"aName\" ,\n  \"o\" : { \"k\"  :  7 } }"
	m := newMatcher(t, doc, 3)

	v, ok := lookup(t, m, "name")
	require.True(t, ok)
	assert.Equal(t, model.String("aName"), v)

	v, ok = lookup(t, m, "o.k")
	require.True(t, ok)
	assert.Equal(t, model.Number(7), v)
}

func TestKeyMatchesEscapedQuotes(t *testing.T) {
	m := newMatcher(t, `{"x":"ab\"c","d2":"u\"y","k\"q":1}`, 2)

	v, ok := lookup(t, m, "d2")
	require.True(t, ok)
	assert.Equal(t, model.String(`u"y`), v)

	// "c" appears right before an escaped quote inside a value, never as a key
	_, ok = lookup(t, m, "c")
	assert.False(t, ok)

	v, ok = lookup(t, m, `k"q`)
	require.True(t, ok)
	assert.Equal(t, model.Number(1), v)
}

func TestFindValueByPattern(t *testing.T) {
	first := newMatcher(t, `{"x":1,"y":2}`, 2)
	p, _, ok := first.FindPattern(model.MustParsePath("y"))
	require.True(t, ok)
	assert.Equal(t, model.Pattern{1}, p)

	colon, ok := first.FindValueByPattern(model.MustParsePath("y"), p)
	require.True(t, ok)
	v, _ := value.Read(first.src, colon)
	assert.Equal(t, model.Number(2), v)

	// swapped field order invalidates the pattern
	second := newMatcher(t, `{"y":2,"x":1}`, 2)
	_, ok = second.FindValueByPattern(model.MustParsePath("y"), p)
	assert.False(t, ok)

	// fewer fields: ordinal out of range
	third := newMatcher(t, `{"y":3}`, 2)
	_, ok = third.FindValueByPattern(model.MustParsePath("y"), p)
	assert.False(t, ok)

	// wrong arity
	_, ok = first.FindValueByPattern(model.MustParsePath("y"), model.Pattern{1, 0})
	assert.False(t, ok)
	_, ok = first.FindValueByPattern(model.MustParsePath("y"), model.Pattern{-1})
	assert.False(t, ok)
}

func TestFindValueByPatternDuplicateKeys(t *testing.T) {
	warm := newMatcher(t, `{"b":0,"a":1}`, 2)
	p, _, ok := warm.FindPattern(model.MustParsePath("a"))
	require.True(t, ok)
	assert.Equal(t, model.Pattern{1}, p)

	// the cached ordinal lands on the second "a"; search resolves the first
	dup := newMatcher(t, `{"a":2,"a":3}`, 2)
	_, ok = dup.FindValueByPattern(model.MustParsePath("a"), p)
	assert.False(t, ok)

	v, ok := lookup(t, dup, "a")
	require.True(t, ok)
	assert.Equal(t, model.Number(2), v)

	nested := newMatcher(t, `{"x":{"b":0,"a":1},"y":0}`, 3)
	p, _, ok = nested.FindPattern(model.MustParsePath("x.a"))
	require.True(t, ok)
	nestedDup := newMatcher(t, `{"x":{"a":2,"a":3},"y":0}`, 3)
	_, ok = nestedDup.FindValueByPattern(model.MustParsePath("x.a"), p)
	assert.False(t, ok)
}

func TestKeyMatchesComparesUnescapedKeys(t *testing.T) {
	// on the wire the key is k\\, unescaped it is k\
	m := newMatcher(t, `{"k\\":1,"t\u0041b":2}`, 2)

	_, ok := lookup(t, m, `k\\`)
	assert.False(t, ok, "raw key bytes must not match")

	v, ok := lookup(t, m, `k\`)
	require.True(t, ok)
	assert.Equal(t, model.Number(1), v)

	_, ok = lookup(t, m, `t\u0041b`)
	assert.False(t, ok)

	v, ok = lookup(t, m, "tAb")
	require.True(t, ok)
	assert.Equal(t, model.Number(2), v)
}

func TestFindPatternMalformedDocuments(t *testing.T) {
	for _, doc := range []string{
		``,
		`{`,
		`}`,
		`{"a":`,
		`{"a":1`,
		`"a":1}`,
		`{{{{"a":1}`,
		`{"a:1}`,
		`:::`,
	} {
		t.Run(doc, func(t *testing.T) {
			m := newMatcher(t, doc, 2)
			assert.NotPanics(t, func() {
				m.FindPattern(model.MustParsePath("a"))
				m.FindValueByPattern(model.MustParsePath("a"), model.Pattern{0})
			})
		})
	}
}

func TestFindPatternTooDeepForLevels(t *testing.T) {
	m := newMatcher(t, `{"a":{"b":{"c":1}}}`, 2)
	_, _, ok := m.FindPattern(model.MustParsePath("a.b.c"))
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	doc := `{"plain":1, "esc\"aped" : 2}`
	m := newMatcher(t, doc, 2)

	var keys []string
	for _, c := range m.levels.Colons(0, 0, len(doc), nil) {
		k, ok := m.Key(c)
		require.True(t, ok)
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"plain", `esc"aped`}, keys)

	_, ok := m.Key(0)
	assert.False(t, ok)
}
