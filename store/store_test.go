package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "jumpz.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return st
}

func TestInsertSessionFillsDefaults(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	start := time.Now().Add(-2 * time.Minute)
	rec, err := st.InsertSession(ctx, Record{
		StartedAt: start,
		EndedAt:   start.Add(2 * time.Minute),
		Mode:      "hybrid",
		Level:     3,
		Jumps:     120,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID, "missing ID is generated")
	assert.Equal(t, int64(120000), rec.DurationMs, "duration derived from timestamps")
	assert.InDelta(t, 60.0, rec.JumpsPerMinute(), 1e-9)
}

func TestJumpsPerMinuteZeroDuration(t *testing.T) {
	assert.Zero(t, Record{Jumps: 50}.JumpsPerMinute())
	assert.Zero(t, Record{Jumps: 50, DurationMs: -1}.JumpsPerMinute())
}

func TestDailyTotals(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	for _, rec := range []Record{
		{StartedAt: now.Add(-30 * time.Minute), EndedAt: now, Mode: "simple", Level: 3, Jumps: 40, DurationMs: 60000},
		{StartedAt: now.Add(-10 * time.Minute), EndedAt: now, Mode: "simple", Level: 3, Jumps: 60, DurationMs: 120000},
		{StartedAt: yesterday, EndedAt: yesterday.Add(time.Minute), Mode: "hybrid", Level: 2, Jumps: 25, DurationMs: 60000},
	} {
		_, err := st.InsertSession(ctx, rec)
		require.NoError(t, err)
	}

	totals, err := st.DailyTotals(ctx, 7)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	// Newest day first.
	assert.Equal(t, now.Format("2006-01-02"), totals[0].Day)
	assert.Equal(t, 2, totals[0].Sessions)
	assert.Equal(t, 100, totals[0].Jumps)
	assert.Equal(t, int64(180000), totals[0].DurationMs)

	assert.Equal(t, yesterday.Format("2006-01-02"), totals[1].Day)
	assert.Equal(t, 25, totals[1].Jumps)
}

func TestDailyTotalsWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -30)
	_, err := st.InsertSession(ctx, Record{
		StartedAt: old, EndedAt: old.Add(time.Minute),
		Mode: "simple", Level: 3, Jumps: 10, DurationMs: 60000,
	})
	require.NoError(t, err)

	totals, err := st.DailyTotals(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, totals, "sessions outside the window are excluded")

	totals, err = st.DailyTotals(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, totals)
}

func TestWeeklyTotals(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for range 3 {
		_, err := st.InsertSession(ctx, Record{
			StartedAt: now.Add(-time.Hour), EndedAt: now,
			Mode: "enhanced", Level: 4, Jumps: 50, DurationMs: 60000,
		})
		require.NoError(t, err)
	}

	totals, err := st.WeeklyTotals(ctx, 4)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 3, totals[0].Sessions)
	assert.Equal(t, 150, totals[0].Jumps)
}
