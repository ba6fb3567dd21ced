package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntToUint32(t *testing.T) {
	got, err := IntToUint32(0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), got)

	got, err = IntToUint32(math.MaxInt32)
	assert.NoError(t, err)
	assert.Equal(t, uint32(math.MaxInt32), got)

	_, err = IntToUint32(-1)
	assert.ErrorIs(t, err, ErrOverflow)

	if math.MaxInt > math.MaxUint32 {
		_, err = IntToUint32(math.MaxUint32 + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	}
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(123)
	assert.NoError(t, err)
	assert.Equal(t, 123, got)
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(42)
	assert.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}
