package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	p, err := ParsePath("address.city")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, "city", p.Segment(1))
	assert.Equal(t, "address.city", p.String())

	for _, bad := range []string{"", ".", "a.", ".a", "a..b"} {
		_, err := ParsePath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
	assert.Panics(t, func() { MustParsePath("") })
}

func TestScalarCompare(t *testing.T) {
	c, ok := Number(26).Compare(Number(27))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = String("b").Compare(String("a"))
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = Bool(false).Compare(Bool(true))
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = Number(1).Compare(String("1"))
	assert.False(t, ok)
	_, ok = Null().Compare(Null())
	assert.False(t, ok)
	_, ok = Number(math.NaN()).Compare(Number(1))
	assert.False(t, ok)
}

func TestScalarEqualAndString(t *testing.T) {
	assert.True(t, Null().Equal(Null()))
	assert.True(t, String("x").Equal(String("x")))
	assert.False(t, Number(1).Equal(Bool(true)))

	assert.Equal(t, `"u\"y"`, String(`u"y`).String())
	assert.Equal(t, "26", Number(26).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "null", Null().String())
}

func TestFromAny(t *testing.T) {
	s, ok := FromAny(float64(2))
	assert.True(t, ok)
	assert.Equal(t, Number(2), s)

	s, ok = FromAny(nil)
	assert.True(t, ok)
	assert.True(t, s.IsNull())

	_, ok = FromAny(map[string]any{})
	assert.False(t, ok)

	assert.Equal(t, "x", String("x").Any())
}

func TestPatternClone(t *testing.T) {
	p := Pattern{1, 0, 3}
	c := p.Clone()
	c[0] = 9
	assert.Equal(t, 1, p[0])
	assert.True(t, p.Equal(Pattern{1, 0, 3}))
	assert.False(t, p.Equal(c))
	assert.Nil(t, Pattern(nil).Clone())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "found", OutcomeFound.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "not_scalar", OutcomeNotScalar.String())
	assert.Equal(t, "malformed", OutcomeMalformed.String())
	assert.True(t, Result{Outcome: OutcomeFound}.Found())
}
