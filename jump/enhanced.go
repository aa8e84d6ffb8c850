package jump

import (
	"log/slog"
	"math"
	"time"
)

// Timing windows for the physical jump signature: push off the ground,
// a short stretch of reduced apparent gravity, then a landing spike.
const (
	minPushToFreefall = 10 * time.Millisecond
	maxFreefall       = 400 * time.Millisecond
	minFreefall       = 50 * time.Millisecond
	landingWindow     = 300 * time.Millisecond
)

// Validator windows and the sample-to-sample delta that splits
// high-frequency jitter from low-frequency motion.
const (
	gyroWindow = 10
	freqWindow = 20
	freqSplit  = 2.0
)

// Too-strict self-report bounds: a full frequency window of real motion
// with nothing counted.
const (
	tooStrictSamples = 20
	tooStrictMinMag  = 3.0
)

type phase int

const (
	phaseIdle phase = iota
	phasePushOff
	phaseFreefall
)

// Enhanced is the four-phase jump detector: idle → push-off →
// free-fall → landing check, cross-validated against gyroscope variance
// and a frequency-energy split over trailing sample windows. Sequences
// that miss their timing window, or fail validation, are discarded
// without side effects.
type Enhanced struct {
	profile Profile

	accel *Ring
	gyro  *Ring
	// When the rings are shared (Hybrid), the owner pushes samples and
	// this detector only reads them.
	sharedBuffers bool

	phase      phase
	pushOffAt  time.Time
	freefallAt time.Time

	count  int
	maxMag float64
	log    *slog.Logger
}

// NewEnhanced creates an Enhanced detector owning its own buffers.
func NewEnhanced(p Profile) *Enhanced {
	return &Enhanced{
		profile: p,
		accel:   NewRing(BufferCap),
		gyro:    NewRing(BufferCap),
	}
}

// newEnhancedShared creates an Enhanced detector reading from buffers
// owned by the caller. The caller is responsible for pushing samples.
func newEnhancedShared(p Profile, accel, gyro *Ring) *Enhanced {
	return &Enhanced{
		profile:       p,
		accel:         accel,
		gyro:          gyro,
		sharedBuffers: true,
	}
}

// SetLogger attaches an optional telemetry logger.
func (d *Enhanced) SetLogger(l *slog.Logger) { d.log = l }

// ProcessGyro buffers one gyroscope sample for the variance validator.
func (d *Enhanced) ProcessGyro(s Sample) {
	if !d.sharedBuffers {
		d.gyro.Push(s)
	}
}

// ProcessAccel ingests one accelerometer sample, advancing the phase
// machine. Returns true when the sample completes a validated jump.
func (d *Enhanced) ProcessAccel(s Sample) bool {
	if !d.sharedBuffers {
		d.accel.Push(s)
	}
	if s.Mag > d.maxMag {
		d.maxMag = s.Mag
	}

	switch d.phase {
	case phasePushOff, phaseFreefall:
		if s.Time.Sub(d.pushOffAt) >= landingWindow {
			// Landing window expired: discard the sequence. The same
			// sample may open a fresh one below.
			d.phase = phaseIdle
		}
	}

	switch d.phase {
	case phaseIdle:
		if s.Mag > d.profile.PushOff {
			d.phase = phasePushOff
			d.pushOffAt = s.Time
		}

	case phasePushOff:
		sincePush := s.Time.Sub(d.pushOffAt)
		if sincePush > minPushToFreefall && sincePush <= maxFreefall && s.Mag < d.profile.Freefall {
			// Only the first low-magnitude sample starts free-fall.
			d.phase = phaseFreefall
			d.freefallAt = s.Time
		}

	case phaseFreefall:
		ffDur := s.Time.Sub(d.freefallAt)
		total := s.Time.Sub(d.pushOffAt)
		if ffDur >= minFreefall && ffDur <= maxFreefall &&
			s.Mag > d.profile.Landing && total < landingWindow {
			// A sequence is consumed exactly once, success or failure.
			d.phase = phaseIdle
			if d.validateJump() {
				d.count++
				return true
			}
		}
	}

	return false
}

// validateJump is the anti-cheat check: a genuine vertical jump shows
// rotational stillness (low gyro variance) and smooth motion (more
// low-frequency than high-frequency energy in the trailing window).
// Shaking the device in-hand produces the same magnitude spike but
// fails both.
func (d *Enhanced) validateJump() bool {
	gyroVar := variance(d.gyro.Last(gyroWindow))
	if gyroVar >= d.profile.GyroVariance {
		if d.log != nil {
			d.log.Debug("jump rejected: gyro variance",
				"variance", gyroVar, "threshold", d.profile.GyroVariance)
		}
		return false
	}

	low, high := freqEnergy(d.accel.Last(freqWindow))
	if low <= high {
		if d.log != nil {
			d.log.Debug("jump rejected: frequency profile",
				"lowEnergy", low, "highEnergy", high)
		}
		return false
	}
	return true
}

// freqEnergy buckets trailing sample-to-sample magnitude deltas into
// high-frequency (|Δ| > freqSplit) and low-frequency energy sums.
func freqEnergy(samples []Sample) (low, high float64) {
	for i := 1; i < len(samples); i++ {
		delta := math.Abs(samples[i].Mag - samples[i-1].Mag)
		if delta > freqSplit {
			high += delta
		} else {
			low += delta
		}
	}
	return low, high
}

// TooStrict reports whether the detector has seen a full window of
// real motion without counting anything, signalling that a higher-level
// policy may want to fall back to the Simple strategy. The detector
// never switches strategies itself.
func (d *Enhanced) TooStrict() bool {
	return d.count == 0 && d.accel.Len() >= tooStrictSamples && d.maxMag > tooStrictMinMag
}

// Count returns the cumulative validated jump count.
func (d *Enhanced) Count() int { return d.count }

// Reset zeroes the count, buffers, and phase state.
func (d *Enhanced) Reset() {
	d.count = 0
	d.maxMag = 0
	if !d.sharedBuffers {
		d.accel.Reset()
		d.gyro.Reset()
	}
	d.ResetPhase()
}

// ResetPhase discards any in-flight jump sequence, keeping the count.
func (d *Enhanced) ResetPhase() {
	d.phase = phaseIdle
	d.pushOffAt = time.Time{}
	d.freefallAt = time.Time{}
}

// SetProfile swaps in a new threshold profile.
func (d *Enhanced) SetProfile(p Profile) { d.profile = p }
