// Package jump implements motion-based jump detection from raw
// accelerometer and gyroscope sample streams. Three strategies are
// provided: Simple (threshold + hysteresis), Enhanced (four-phase
// motion model with an anti-cheat validator), and Hybrid (starts
// Simple, promotes itself to Enhanced when shake-like input appears).
package jump

import (
	"math"
	"time"
)

// SampleRate is the nominal input sample rate in Hz. Delivery is not
// guaranteed to be uniform; all timing logic uses sample timestamps.
const SampleRate = 100

// SensorKind identifies which sensor produced a sample.
type SensorKind int

const (
	// KindAccel is the accelerometer stream (m/s²).
	KindAccel SensorKind = iota
	// KindGyro is the gyroscope stream (rad/s).
	KindGyro
)

// String returns the sensor name used in logs and recordings.
func (k SensorKind) String() string {
	switch k {
	case KindAccel:
		return "accel"
	case KindGyro:
		return "gyro"
	default:
		return "unknown"
	}
}

// Sample is one 3-axis sensor reading with its derived magnitude.
// Immutable once created.
type Sample struct {
	Time time.Time
	X    float64
	Y    float64
	Z    float64
	Mag  float64
}

// NewSample builds a Sample and computes its Euclidean magnitude.
func NewSample(t time.Time, x, y, z float64) Sample {
	return Sample{
		Time: t,
		X:    x,
		Y:    y,
		Z:    z,
		Mag:  math.Sqrt(x*x + y*y + z*z),
	}
}

// Valid reports whether the sample carries finite axis values and a
// non-zero timestamp. Invalid samples are dropped at the session
// boundary so they never reach buffer or variance math.
func (s Sample) Valid() bool {
	if s.Time.IsZero() {
		return false
	}
	for _, v := range [4]float64{s.X, s.Y, s.Z, s.Mag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Source delivers sensor samples as push callbacks. Implementations
// live outside this package (see the source package); the detector only
// requires that callbacks for one kind arrive in non-decreasing
// timestamp order. The returned cancel func unsubscribes and is safe to
// call more than once.
type Source interface {
	Subscribe(kind SensorKind, fn func(Sample)) (cancel func(), err error)
}
