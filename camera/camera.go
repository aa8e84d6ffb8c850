// Package camera holds the camera-based "jump detector" stub. It
// performs no image analysis: the count moves only on explicit manual
// triggers while the counter is running. It exists so callers that
// offer a camera mode have a lifecycle-compatible counter to drive.
package camera

import "sync"

// Counter is the manual camera jump counter. Start and Stop are
// idempotent; Increment is ignored while stopped.
type Counter struct {
	mu      sync.Mutex
	running bool
	count   int
}

// New creates a stopped Counter.
func New() *Counter {
	return &Counter{}
}

// Start enables counting.
func (c *Counter) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
}

// Stop disables counting.
func (c *Counter) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Increment adds one jump if the counter is running, returning the new
// count and whether the trigger was accepted.
func (c *Counter) Increment() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return c.count, false
	}
	c.count++
	return c.count, true
}

// Count returns the current count.
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset sets the count to zero.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
}

// Running reports whether manual triggers are being accepted.
func (c *Counter) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
