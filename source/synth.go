package source

import (
	"context"
	"time"

	"github.com/elynrose/jumpz/jump"
)

// One synthetic jump cycle, in samples. At the default 10 ms interval a
// cycle is one second: quiet stance, push-off spike, free-fall dip,
// landing spike, quiet again. The shape satisfies every timing window
// of the enhanced detector, so the synth is usable as an end-to-end
// smoke signal.
const synthCycle = 100

const (
	synthIdleMag     = 1.0
	synthPushOffMag  = 3.0
	synthFreefallMag = 0.3
	synthLandingMag  = 2.0
	synthGyroMag     = 0.01
)

// Synth generates a deterministic jump waveform, one jump per cycle,
// with a near-still gyroscope track. It exists for demos and soak runs
// when no device recording is at hand.
type Synth struct {
	dispatcher

	// Interval is the sample spacing. Zero means 10 ms (100 Hz).
	Interval time.Duration
}

// NewSynth creates a Synth at the nominal 100 Hz rate.
func NewSynth() *Synth {
	return &Synth{Interval: 10 * time.Millisecond}
}

// Run generates samples until ctx is cancelled.
func (g *Synth) Run(ctx context.Context) error {
	interval := g.Interval
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			mag := jumpWave(i % synthCycle)
			g.emit(jump.KindAccel, jump.NewSample(now, mag, 0, 0))
			g.emit(jump.KindGyro, jump.NewSample(now, synthGyroMag, 0, 0))
			i++
		}
	}
}

// jumpWave returns the accelerometer magnitude at cycle position i.
// Push-off lands at sample 80, the free-fall dip runs 85–89 (50 ms
// after push-off), and the landing spike hits at 90.
func jumpWave(i int) float64 {
	switch {
	case i == 80:
		return synthPushOffMag
	case i >= 85 && i <= 89:
		return synthFreefallMag
	case i == 90:
		return synthLandingMag
	default:
		return synthIdleMag
	}
}
