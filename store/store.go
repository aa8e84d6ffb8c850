// Package store handles SQLite persistence of finalized detection
// sessions and their daily/weekly aggregates.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver.
)

// Record is one finalized detection session.
type Record struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	Level      int
	Jumps      int
	DurationMs int64
}

// JumpsPerMinute returns the session rate, zero for zero-duration
// sessions.
func (r Record) JumpsPerMinute() float64 {
	if r.DurationMs <= 0 {
		return 0
	}
	return float64(r.Jumps) / (float64(r.DurationMs) / 60000.0)
}

// DayTotal is one day's aggregate.
type DayTotal struct {
	Day        string // YYYY-MM-DD
	Sessions   int
	Jumps      int
	DurationMs int64
}

// WeekTotal is one ISO-ish week's aggregate (year-week bucket).
type WeekTotal struct {
	Week       string // YYYY-WW
	Sessions   int
	Jumps      int
	DurationMs int64
}

// Store wraps SQLite access for session results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			level INTEGER NOT NULL,
			jumps INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finalized session. A missing ID is filled in
// with a fresh UUID; the stored record is returned.
func (s *Store) InsertSession(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.DurationMs == 0 && rec.EndedAt.After(rec.StartedAt) {
		rec.DurationMs = rec.EndedAt.Sub(rec.StartedAt).Milliseconds()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, ended_at, mode, level, jumps, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.Mode,
		rec.Level,
		rec.Jumps,
		rec.DurationMs,
	)
	if err != nil {
		return Record{}, fmt.Errorf("inserting session: %w", err)
	}
	return rec, nil
}

// DailyTotals aggregates jumps per calendar day over the most recent
// days, newest first.
func (s *Store) DailyTotals(ctx context.Context, days int) ([]DayTotal, error) {
	if days <= 0 {
		return nil, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx,
		`SELECT date(started_at) AS day, COUNT(*), SUM(jumps), SUM(duration_ms)
		 FROM sessions
		 WHERE started_at >= ?
		 GROUP BY day
		 ORDER BY day DESC`, since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var totals []DayTotal
	for rows.Next() {
		var t DayTotal
		if err := rows.Scan(&t.Day, &t.Sessions, &t.Jumps, &t.DurationMs); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// WeeklyTotals aggregates jumps per week bucket over the most recent
// weeks, newest first.
func (s *Store) WeeklyTotals(ctx context.Context, weeks int) ([]WeekTotal, error) {
	if weeks <= 0 {
		return nil, nil
	}
	since := time.Now().UTC().AddDate(0, 0, -7*weeks).Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%W', started_at) AS week, COUNT(*), SUM(jumps), SUM(duration_ms)
		 FROM sessions
		 WHERE started_at >= ?
		 GROUP BY week
		 ORDER BY week DESC`, since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var totals []WeekTotal
	for rows.Next() {
		var t WeekTotal
		if err := rows.Scan(&t.Week, &t.Sessions, &t.Jumps, &t.DurationMs); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
