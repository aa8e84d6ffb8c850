package jump

import "log/slog"

// Shake heuristic: more than shakeTransitions low→high swings inside
// the trailing shakeWindow samples means the device is being shaken,
// and the strict Enhanced strategy takes over. Constants are kept as-is
// from the reference behavior; retuning them is a separate change.
const (
	shakeWindow      = 20
	shakeLowBound    = 5.0
	shakeHighBound   = 8.0
	shakeTransitions = 3
)

// Hybrid composes the Simple and Enhanced strategies under one count.
// It starts Simple (forgiving) and promotes itself to Enhanced the
// first time shake-like input shows up in the trailing window. The
// promotion is one-way. Both strategies read the same buffers, so no
// sensor data is lost across the switch.
type Hybrid struct {
	accel    *Ring
	gyro     *Ring
	simple   *Simple
	enhanced *Enhanced
	promoted bool
	log      *slog.Logger
}

// NewHybrid creates a Hybrid detector with the given profile.
func NewHybrid(p Profile) *Hybrid {
	accel := NewRing(BufferCap)
	gyro := NewRing(BufferCap)
	return &Hybrid{
		accel:    accel,
		gyro:     gyro,
		simple:   NewSimple(p),
		enhanced: newEnhancedShared(p, accel, gyro),
	}
}

// SetLogger attaches an optional telemetry logger.
func (d *Hybrid) SetLogger(l *slog.Logger) {
	d.log = l
	d.simple.SetLogger(l)
	d.enhanced.SetLogger(l)
}

// Promoted reports whether the detector has switched to the Enhanced
// strategy.
func (d *Hybrid) Promoted() bool { return d.promoted }

// ProcessAccel buffers the sample, re-evaluates the shake heuristic,
// and dispatches to the active strategy.
func (d *Hybrid) ProcessAccel(s Sample) bool {
	d.accel.Push(s)

	if !d.promoted && d.shaking() {
		d.promoted = true
		if d.log != nil {
			d.log.Info("shake pattern detected, promoting to enhanced strategy")
		}
	}

	if d.promoted {
		counted := d.enhanced.ProcessAccel(s)
		if counted {
			// Keep the simple counter in sync so the combined count
			// survives without per-strategy bookkeeping.
			d.simple.count = d.enhanced.count
		}
		return counted
	}

	counted := d.simple.ProcessAccel(s)
	if counted {
		d.enhanced.count = d.simple.count
	}
	return counted
}

// ProcessGyro buffers the sample for the Enhanced validator.
func (d *Hybrid) ProcessGyro(s Sample) {
	d.gyro.Push(s)
}

// shaking counts rapid low→high magnitude swings in the trailing
// window.
func (d *Hybrid) shaking() bool {
	window := d.accel.Last(shakeWindow)
	transitions := 0
	for i := 1; i < len(window); i++ {
		if window[i-1].Mag < shakeLowBound && window[i].Mag > shakeHighBound {
			transitions++
		}
	}
	return transitions > shakeTransitions
}

// Count returns the cumulative jump count across both strategies.
func (d *Hybrid) Count() int {
	if d.promoted {
		return d.enhanced.Count()
	}
	return d.simple.Count()
}

// Reset zeroes the count, buffers, and phase state. The strategy
// promotion is kept; the reference behavior never demotes.
func (d *Hybrid) Reset() {
	d.accel.Reset()
	d.gyro.Reset()
	d.simple.Reset()
	d.enhanced.Reset()
}

// ResetPhase discards in-flight phase state in both strategies.
func (d *Hybrid) ResetPhase() {
	d.simple.ResetPhase()
	d.enhanced.ResetPhase()
}

// SetProfile swaps in a new threshold profile for both strategies.
func (d *Hybrid) SetProfile(p Profile) {
	d.simple.SetProfile(p)
	d.enhanced.SetProfile(p)
}
