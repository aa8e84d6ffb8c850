package jump

// Detector is the strategy interface shared by Simple, Enhanced, and
// Hybrid. ProcessAccel reports whether this sample completed a counted
// jump. Detectors are not goroutine-safe; Session serializes access.
type Detector interface {
	// ProcessAccel ingests one accelerometer sample and returns true
	// when it counts a jump.
	ProcessAccel(s Sample) bool
	// ProcessGyro ingests one gyroscope sample.
	ProcessGyro(s Sample)
	// Count returns the cumulative validated jump count.
	Count() int
	// Reset zeroes the count and all transient phase state.
	Reset()
	// ResetPhase clears transient phase state but keeps the count.
	ResetPhase()
	// SetProfile swaps in a new threshold profile. The next processed
	// sample sees the new profile in full.
	SetProfile(p Profile)
}

// NewDetector builds the detector strategy for the given mode with
// thresholds for the given sensitivity level.
func NewDetector(mode Mode, level int) Detector {
	p := ComputeThresholds(level)
	switch mode {
	case ModeEnhanced:
		return NewEnhanced(p)
	case ModeHybrid:
		return NewHybrid(p)
	default:
		return NewSimple(p)
	}
}

// variance computes the population variance of sample magnitudes.
// Returns 0 for windows of fewer than two samples.
func variance(samples []Sample) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s.Mag
	}
	mean := sum / float64(n)
	var acc float64
	for _, s := range samples {
		d := s.Mag - mean
		acc += d * d
	}
	return acc / float64(n)
}
