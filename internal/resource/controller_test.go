package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 100))
	assert.Equal(t, int64(100), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(ctx, 1), context.DeadlineExceeded)
	assert.False(t, c.TryAcquireMemory(1))

	c.ReleaseMemory(10)
	assert.Equal(t, int64(90), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(5))
	assert.Equal(t, int64(95), c.MemoryUsage())

	assert.ErrorIs(t, c.AcquireMemory(context.Background(), 101), ErrMemoryLimitExceeded)
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestControllerMemoryWaitsForRelease(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})
	require.True(t, c.TryAcquireMemory(10))

	done := make(chan error, 1)
	go func() { done <- c.AcquireMemory(context.Background(), 4) }()

	time.Sleep(10 * time.Millisecond)
	c.ReleaseMemory(10)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("acquire did not resume after release")
	}
	assert.Equal(t, int64(4), c.MemoryUsage())
}

func TestControllerUnlimited(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireMemory(context.Background(), 1<<40))
	assert.True(t, c.TryAcquireMemory(1<<40))
	require.NoError(t, c.AcquireIO(context.Background(), 1<<20))
	assert.Equal(t, int64(1<<20), c.IOBytes())
}

func TestControllerNil(t *testing.T) {
	var c *Controller
	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())
	assert.NoError(t, c.AcquireIO(context.Background(), 10))
	assert.Zero(t, c.IOBytes())
}

func TestControllerIOLimit(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	// burst covers the first read
	require.NoError(t, c.AcquireIO(context.Background(), 1000))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 500))
}
