package jump

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ringBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ringSample(i int) Sample {
	return NewSample(ringBase.Add(time.Duration(i)*10*time.Millisecond), float64(i), 0, 0)
}

func TestRingEviction(t *testing.T) {
	r := NewRing(3)
	assert.Equal(t, 0, r.Len())

	for i := range 5 {
		r.Push(ringSample(i))
	}
	require.Equal(t, 3, r.Len())

	last := r.Last(3)
	require.Len(t, last, 3)
	assert.Equal(t, 2.0, last[0].Mag)
	assert.Equal(t, 3.0, last[1].Mag)
	assert.Equal(t, 4.0, last[2].Mag)
}

func TestRingLastPartial(t *testing.T) {
	r := NewRing(10)
	r.Push(ringSample(0))
	r.Push(ringSample(1))

	assert.Nil(t, r.Last(0))
	assert.Len(t, r.Last(5), 2)

	last := r.Last(1)
	require.Len(t, last, 1)
	assert.Equal(t, 1.0, last[0].Mag)
}

func TestRingNewest(t *testing.T) {
	r := NewRing(2)
	_, ok := r.Newest()
	assert.False(t, ok)

	r.Push(ringSample(7))
	s, ok := r.Newest()
	require.True(t, ok)
	assert.Equal(t, 7.0, s.Mag)

	r.Push(ringSample(8))
	r.Push(ringSample(9))
	s, ok = r.Newest()
	require.True(t, ok)
	assert.Equal(t, 9.0, s.Mag)
}

func TestRingReset(t *testing.T) {
	r := NewRing(4)
	for i := range 6 {
		r.Push(ringSample(i))
	}
	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Last(4))
}

func TestSampleValid(t *testing.T) {
	ok := NewSample(ringBase, 1, 2, 3)
	assert.True(t, ok.Valid())

	nan := NewSample(ringBase, 0, 0, 0)
	nan.X = math.NaN()
	nan.Mag = math.NaN()
	assert.False(t, nan.Valid())

	inf := NewSample(ringBase, 0, 0, 0)
	inf.Z = math.Inf(1)
	assert.False(t, inf.Valid())

	assert.False(t, NewSample(time.Time{}, 1, 1, 1).Valid())
}
