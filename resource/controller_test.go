package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should fail - limit exceeded)
	err = c.AcquireMemory(20)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, int64(90), c.MemoryUsage())
	assert.Equal(t, int64(1), c.Refusals())

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
	assert.Equal(t, int64(90), c.PeakMemoryUsage())
	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.Equal(t, int64(0), c.MemoryLimit())
}

func TestController_NonPositiveAmounts(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(0))
	require.NoError(t, c.AcquireMemory(-5))
	c.ReleaseMemory(0)
	c.ReleaseMemory(-5)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_NilSafety(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireMemory(1<<40))
	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.PeakMemoryUsage())
	assert.Zero(t, c.MemoryLimit())
	assert.Zero(t, c.Refusals())
}

func TestController_ConcurrentAccounting(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1 << 20})

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for range 1000 {
				if err := c.AcquireMemory(64); err != nil {
					return err
				}
				c.ReleaseMemory(64)
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.LessOrEqual(t, c.PeakMemoryUsage(), int64(8*64))
}
