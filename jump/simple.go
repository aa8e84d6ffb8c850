package jump

import (
	"log/slog"
	"time"
)

// Hysteresis lower bound: after a rising-edge count, magnitude must
// drop below this before the next count can trigger.
const hysteresisLow = 8.0

// stuckTimeout bounds how long the detector may sit above the
// hysteresis band (device pressed against a surface) before it re-arms
// on its own, measured from the last counted jump.
const stuckTimeout = 3 * time.Second

// Simple is the single-threshold fallback strategy: counts on the
// rising edge of magnitude through the jump threshold, re-arms once
// magnitude falls below the hysteresis bound. Low false-negative, high
// false-positive; no timing windows.
type Simple struct {
	profile Profile
	above   bool
	lastHit time.Time
	count   int
	log     *slog.Logger
}

// NewSimple creates a Simple detector with the given profile.
func NewSimple(p Profile) *Simple {
	return &Simple{profile: p}
}

// SetLogger attaches an optional telemetry logger.
func (d *Simple) SetLogger(l *slog.Logger) { d.log = l }

// ProcessAccel ingests one accelerometer sample. Returns true on the
// rising edge through the jump threshold; that edge is the only
// counting moment.
func (d *Simple) ProcessAccel(s Sample) bool {
	if !d.above {
		if s.Mag > d.profile.Jump {
			d.above = true
			d.count++
			d.lastHit = s.Time
			return true
		}
		return false
	}

	if s.Mag < hysteresisLow {
		d.above = false
	} else if !d.lastHit.IsZero() && s.Time.Sub(d.lastHit) > stuckTimeout {
		// Sustained high magnitude: re-arm so counting is not blocked
		// forever.
		d.above = false
		if d.log != nil {
			d.log.Debug("simple detector re-armed after stuck state", "mag", s.Mag)
		}
	}
	return false
}

// ProcessGyro is a no-op; the simple strategy uses only accelerometer
// magnitude.
func (d *Simple) ProcessGyro(Sample) {}

// Count returns the cumulative jump count.
func (d *Simple) Count() int { return d.count }

// Reset zeroes the count and re-arms the trigger.
func (d *Simple) Reset() {
	d.count = 0
	d.ResetPhase()
}

// ResetPhase re-arms the trigger without touching the count.
func (d *Simple) ResetPhase() {
	d.above = false
	d.lastHit = time.Time{}
}

// SetProfile swaps in a new threshold profile.
func (d *Simple) SetProfile(p Profile) { d.profile = p }
