package jump

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hybBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func hybAccel(ms int, mag float64) Sample {
	return NewSample(hybBase.Add(time.Duration(ms)*time.Millisecond), mag, 0, 0)
}

func TestHybridStartsSimple(t *testing.T) {
	d := NewHybrid(ComputeThresholds(3))
	assert.False(t, d.Promoted())

	// A bare magnitude spike counts under the simple strategy.
	assert.True(t, d.ProcessAccel(hybAccel(0, 13.0)))
	assert.Equal(t, 1, d.Count())
}

// feedShake alternates sub-5.0 and over-8.0 magnitudes, producing one
// low→high transition per pair.
func feedShake(d *Hybrid, startMs, pairs int) int {
	ms := startMs
	for range pairs {
		d.ProcessAccel(hybAccel(ms, 1.0))
		ms += 10
		d.ProcessAccel(hybAccel(ms, 9.0))
		ms += 10
	}
	return ms
}

func TestHybridPromotesOnShake(t *testing.T) {
	d := NewHybrid(ComputeThresholds(3))

	ms := feedShake(d, 0, 5) // 5 rapid transitions > 3
	require.True(t, d.Promoted())

	// After promotion a bare spike with no free-fall/landing shape no
	// longer counts; under the simple strategy it would have.
	before := d.Count()
	assert.False(t, d.ProcessAccel(hybAccel(ms, 13.0)))
	assert.Equal(t, before, d.Count())
}

func TestHybridPromotionIsOneWay(t *testing.T) {
	d := NewHybrid(ComputeThresholds(3))
	feedShake(d, 0, 5)
	require.True(t, d.Promoted())

	// Long quiet stretch: the promotion sticks.
	for i := range 50 {
		d.ProcessAccel(hybAccel(200+i*10, 1.0))
	}
	assert.True(t, d.Promoted())

	// Reset clears counts and phase but not the strategy.
	d.Reset()
	assert.True(t, d.Promoted())
	assert.Equal(t, 0, d.Count())
}

func TestHybridBelowTransitionBoundDoesNotPromote(t *testing.T) {
	d := NewHybrid(ComputeThresholds(3))

	// Three transitions only: not enough.
	feedShake(d, 0, 3)
	assert.False(t, d.Promoted())
}

func TestHybridCountsThroughEnhancedAfterPromotion(t *testing.T) {
	d := NewHybrid(ComputeThresholds(3))

	ms := feedShake(d, 0, 5)
	require.True(t, d.Promoted())

	// Push a quiet stretch so the old shake leaves the frequency
	// window, then a full jump signature. Gyroscope held still.
	for i := range 20 {
		mag := 1.0
		if i%2 == 1 {
			mag = 1.8
		}
		d.ProcessAccel(hybAccel(ms, mag))
		d.ProcessGyro(NewSample(hybBase.Add(time.Duration(ms)*time.Millisecond), 0.01, 0, 0))
		ms += 10
	}
	before := d.Count()

	d.ProcessAccel(hybAccel(ms, 3.0))
	d.ProcessAccel(hybAccel(ms+100, 0.3))
	assert.True(t, d.ProcessAccel(hybAccel(ms+150, 2.0)))
	assert.Equal(t, before+1, d.Count())
}
