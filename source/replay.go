package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/elynrose/jumpz/jump"
)

// Replay plays back a recorded IMU session from CSV. Each line is
//
//	time_ms,sensor,x,y,z
//
// where sensor is "accel" or "gyro" and time_ms is milliseconds from
// the start of the recording. Lines are replayed in file order with the
// recorded inter-sample delays, scaled by Speed. Malformed lines are
// skipped.
type Replay struct {
	dispatcher

	// Speed is the playback rate multiplier: 1.0 is real time, 2.0 is
	// twice as fast. Zero or negative plays back without pacing.
	Speed float64

	r io.Reader
}

// NewReplay creates a Replay reading CSV from r at the given speed.
func NewReplay(r io.Reader, speed float64) *Replay {
	return &Replay{Speed: speed, r: r}
}

// Run replays the recording, blocking until it is exhausted or ctx is
// cancelled. Sample timestamps are rebased onto the wall clock at the
// moment Run starts so replayed sessions look live to the detector.
func (p *Replay) Run(ctx context.Context) error {
	start := time.Now()
	scanner := bufio.NewScanner(p.r)
	var lastMs int64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "time_ms") {
			continue
		}

		ms, kind, x, y, z, ok := parseLine(line)
		if !ok {
			continue
		}
		if ms < lastMs {
			// Recordings are expected in order; drop regressions.
			continue
		}

		if p.Speed > 0 {
			delay := time.Duration(float64(ms-lastMs)/p.Speed) * time.Millisecond
			if delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}
		} else if ctx.Err() != nil {
			return ctx.Err()
		}
		lastMs = ms

		t := start.Add(time.Duration(ms) * time.Millisecond)
		p.emit(kind, jump.NewSample(t, x, y, z))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading recording: %w", err)
	}
	return nil
}

func parseLine(line string) (ms int64, kind jump.SensorKind, x, y, z float64, ok bool) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return 0, 0, 0, 0, 0, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil || ms < 0 {
		return 0, 0, 0, 0, 0, false
	}
	switch strings.TrimSpace(fields[1]) {
	case "accel":
		kind = jump.KindAccel
	case "gyro":
		kind = jump.KindGyro
	default:
		return 0, 0, 0, 0, 0, false
	}
	var axes [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[2+i]), 64)
		if err != nil {
			return 0, 0, 0, 0, 0, false
		}
		axes[i] = v
	}
	return ms, kind, axes[0], axes[1], axes[2], true
}
