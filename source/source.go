// Package source provides sensor-source collaborators for the jump
// engine: a CSV replay source for recorded IMU sessions and a synthetic
// waveform source for demos and soak tests. Both push samples to
// subscribers registered through the jump.Source interface.
package source

import (
	"sync"

	"github.com/elynrose/jumpz/jump"
)

// dispatcher implements jump.Source subscription bookkeeping shared by
// all sources in this package.
type dispatcher struct {
	mu   sync.Mutex
	subs map[jump.SensorKind]map[int]func(jump.Sample)
	next int
}

// Subscribe registers a callback for one sensor kind. The returned
// cancel func is safe to call more than once.
func (d *dispatcher) Subscribe(kind jump.SensorKind, fn func(jump.Sample)) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subs == nil {
		d.subs = make(map[jump.SensorKind]map[int]func(jump.Sample))
	}
	if d.subs[kind] == nil {
		d.subs[kind] = make(map[int]func(jump.Sample))
	}
	id := d.next
	d.next++
	d.subs[kind][id] = fn

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.subs[kind], id)
		})
	}
	return cancel, nil
}

// emit delivers a sample to every subscriber of its kind. Callbacks run
// on the source goroutine; subscribers are expected to do bounded work.
func (d *dispatcher) emit(kind jump.SensorKind, s jump.Sample) {
	d.mu.Lock()
	fns := make([]func(jump.Sample), 0, len(d.subs[kind]))
	for _, fn := range d.subs[kind] {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
