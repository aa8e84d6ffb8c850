package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterIgnoresTriggersWhileStopped(t *testing.T) {
	c := New()
	assert.False(t, c.Running())

	n, ok := c.Increment()
	assert.False(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, c.Count())
}

func TestCounterLifecycle(t *testing.T) {
	c := New()
	c.Start()
	c.Start() // idempotent
	assert.True(t, c.Running())

	n, ok := c.Increment()
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	c.Stop()
	c.Stop() // idempotent
	_, ok = c.Increment()
	assert.False(t, ok)
	assert.Equal(t, 1, c.Count(), "count survives stop")

	c.Start()
	_, ok = c.Increment()
	assert.True(t, ok)
	assert.Equal(t, 2, c.Count())

	c.Reset()
	assert.Equal(t, 0, c.Count())
}
