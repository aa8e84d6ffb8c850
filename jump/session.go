package jump

import (
	"log/slog"
	"sync"
	"time"
)

// subscriber channels are buffered; a slow subscriber misses
// intermediate increments and catches up via Count().
const subscriberBuffer = 8

// SessionConfig configures a detection session.
type SessionConfig struct {
	Source Source
	Mode   Mode
	Level  int // sensitivity 1–5; 0 means DefaultLevel
	Logger *slog.Logger
}

// Session is the externally visible detection lifecycle: it owns one
// detector, subscribes it to the sensor source, and broadcasts count
// increments to any number of observers. Start, Stop, Reset, and
// Dispose are idempotent. All sample processing is serialized, so a
// sample is always evaluated against one consistent profile.
type Session struct {
	mu       sync.Mutex
	src      Source
	det      Detector
	log      *slog.Logger
	running  bool
	disposed bool
	cancels  []func()

	// Per-stream timestamp watermarks; regressions are dropped.
	lastAccel time.Time
	lastGyro  time.Time

	subMu      sync.Mutex
	subs       map[int]chan int
	subsClosed bool
	nextSub    int
}

// NewSession creates a session for the given source and settings. The
// detector is built immediately; nothing runs until Start.
func NewSession(cfg SessionConfig) *Session {
	level := cfg.Level
	if level == 0 {
		level = DefaultLevel
	}
	det := NewDetector(cfg.Mode, level)
	if cfg.Logger != nil {
		if l, ok := det.(interface{ SetLogger(*slog.Logger) }); ok {
			l.SetLogger(cfg.Logger)
		}
	}
	return &Session{
		src:  cfg.Source,
		det:  det,
		log:  cfg.Logger,
		subs: make(map[int]chan int),
	}
}

// Start subscribes to both sensor streams and clears transient phase
// state. The count is left alone; callers reset it explicitly. Calling
// Start on a running or disposed session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.disposed {
		return nil
	}

	s.det.ResetPhase()
	s.lastAccel = time.Time{}
	s.lastGyro = time.Time{}

	cancelAccel, err := s.src.Subscribe(KindAccel, s.onAccel)
	if err != nil {
		// Degraded, not fatal: keep running with whatever streams we
		// can get. The caller sees missing increments, never a crash.
		if s.log != nil {
			s.log.Warn("accelerometer stream unavailable", "err", err)
		}
	} else {
		s.cancels = append(s.cancels, cancelAccel)
	}

	cancelGyro, err := s.src.Subscribe(KindGyro, s.onGyro)
	if err != nil {
		if s.log != nil {
			s.log.Warn("gyroscope stream unavailable", "err", err)
		}
	} else {
		s.cancels = append(s.cancels, cancelGyro)
	}

	s.running = true
	return nil
}

// Stop unsubscribes from the sensor streams. Once Stop returns, no
// in-flight sample mutates state or emits an event. Idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Reset sets the count to zero and discards any in-flight sequence.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.det.Reset()
}

// Count returns the current cumulative jump count.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.det.Count()
}

// Running reports whether the session is consuming sensor streams.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TooStrict reports the active detector's too-strict signal, if the
// strategy exposes one.
func (s *Session) TooStrict() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts, ok := s.det.(interface{ TooStrict() bool }); ok {
		return ts.TooStrict()
	}
	return false
}

// UpdateProfile swaps in a new threshold profile. The swap is atomic
// with respect to sample processing: the next sample sees the new
// profile in full.
func (s *Session) UpdateProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.det.SetProfile(p)
}

// SetSensitivity recomputes thresholds for the given level and applies
// them.
func (s *Session) SetSensitivity(level int) {
	s.UpdateProfile(ComputeThresholds(level))
}

// Subscribe returns a channel receiving the cumulative count on every
// increment, and a cancel func. Late subscribers receive no history.
// Subscribing never affects counting.
func (s *Session) Subscribe() (<-chan int, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan int, subscriberBuffer)
	if s.subsClosed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Dispose stops the session and closes all subscriber channels.
// Idempotent; the session cannot be restarted afterwards.
func (s *Session) Dispose() {
	s.Stop()

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subsClosed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) onAccel(sample Sample) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	if !sample.Valid() || sample.Time.Before(s.lastAccel) {
		s.mu.Unlock()
		return
	}
	s.lastAccel = sample.Time

	counted := s.det.ProcessAccel(sample)
	count := s.det.Count()
	// Broadcast before releasing the lock so no event escapes after
	// Stop has returned. Sends are non-blocking.
	if counted {
		s.broadcast(count)
	}
	s.mu.Unlock()
}

func (s *Session) onGyro(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if !sample.Valid() || sample.Time.Before(s.lastGyro) {
		return
	}
	s.lastGyro = sample.Time
	s.det.ProcessGyro(sample)
}

func (s *Session) broadcast(count int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- count:
		default:
			// Slow subscriber: drop, Count() catches it up.
		}
	}
}
