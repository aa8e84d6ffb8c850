package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elynrose/jumpz/jump"
)

func TestJumpWaveShape(t *testing.T) {
	// The waveform must satisfy the enhanced detector's timing windows:
	// push-off, then a dip 50 ms later lasting into the [50,400] ms
	// free-fall band, then a landing spike inside the 300 ms window.
	assert.Equal(t, synthPushOffMag, jumpWave(80))
	for i := 85; i <= 89; i++ {
		assert.Equal(t, synthFreefallMag, jumpWave(i), "sample %d", i)
	}
	assert.Equal(t, synthLandingMag, jumpWave(90))
	assert.Equal(t, synthIdleMag, jumpWave(0))
	assert.Equal(t, synthIdleMag, jumpWave(99))
}

func TestSynthEmitsBothStreams(t *testing.T) {
	g := NewSynth()
	g.Interval = time.Millisecond // fast cycle for the test

	var accel, gyro collector
	_, err := g.Subscribe(jump.KindAccel, accel.add)
	require.NoError(t, err)
	_, err = g.Subscribe(jump.KindGyro, gyro.add)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	err = g.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	accSamples := accel.all()
	require.NotEmpty(t, accSamples)
	require.NotEmpty(t, gyro.all())

	// At least one full cycle: the push-off spike must be present and
	// timestamps monotone.
	sawPushOff := false
	for i, s := range accSamples {
		if s.Mag == synthPushOffMag {
			sawPushOff = true
		}
		if i > 0 {
			assert.False(t, s.Time.Before(accSamples[i-1].Time))
		}
	}
	assert.True(t, sawPushOff)
}
