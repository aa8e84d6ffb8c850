package jump

import "fmt"

// Mode selects the detection strategy.
type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeEnhanced Mode = "enhanced"
	ModeHybrid   Mode = "hybrid"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSimple, ModeEnhanced, ModeHybrid:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid detection mode: %q (must be simple, enhanced, or hybrid)", s)
	}
}

// Sensitivity levels. Level 3 is "normal"; 5 is least sensitive
// (highest thresholds).
const (
	MinLevel     = 1
	MaxLevel     = 5
	DefaultLevel = 3
)

// Profile is the full set of detection thresholds derived from a
// sensitivity level. It is a value type: detectors read it, they never
// mutate it, and swapping in a new profile is a single assignment.
type Profile struct {
	Jump         float64 // Simple rising-edge trigger (m/s²)
	PushOff      float64 // Enhanced idle→push-off trigger
	Freefall     float64 // Enhanced push-off→free-fall trigger (below)
	Landing      float64 // Enhanced landing spike trigger
	GyroVariance float64 // validator: max gyro magnitude variance
}

// Threshold bases (level 3) and clamp bounds.
var thresholdBases = Profile{
	Jump:         12.0,
	PushOff:      2.0,
	Freefall:     0.5,
	Landing:      1.5,
	GyroVariance: 8.0,
}

var (
	clampMin = Profile{Jump: 8.0, PushOff: 1.0, Freefall: 0.2, Landing: 0.8, GyroVariance: 4.0}
	clampMax = Profile{Jump: 25.0, PushOff: 4.0, Freefall: 1.0, Landing: 3.0, GyroVariance: 15.0}
)

// ComputeThresholds maps a 1–5 sensitivity level to a concrete profile.
// Each field is base * (level/3), clamped to its documented range.
// Out-of-range levels are clamped to [MinLevel, MaxLevel].
func ComputeThresholds(level int) Profile {
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	m := float64(level) / 3.0
	return Profile{
		Jump:         clamp(thresholdBases.Jump*m, clampMin.Jump, clampMax.Jump),
		PushOff:      clamp(thresholdBases.PushOff*m, clampMin.PushOff, clampMax.PushOff),
		Freefall:     clamp(thresholdBases.Freefall*m, clampMin.Freefall, clampMax.Freefall),
		Landing:      clamp(thresholdBases.Landing*m, clampMin.Landing, clampMax.Landing),
		GyroVariance: clamp(thresholdBases.GyroVariance*m, clampMin.GyroVariance, clampMax.GyroVariance),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
