// Package attendance ties the elapsed-time clock to the HR submissions.
//
// A Session moves between Idle and Running. Check-in and check-out change the
// clock immediately and hand back a Submission to run asynchronously; the
// network outcome only ever changes the status text.
package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"punchclock/internal/punchlog"
	"punchclock/internal/timer"
)

// Submitter performs the outbound HTTP calls.
type Submitter interface {
	CheckIn(ctx context.Context) error
	CheckOut(ctx context.Context) error
}

// Journal stores one entry per submission attempt.
type Journal interface {
	Record(ctx context.Context, e *punchlog.Entry) error
}

// Observer receives submission metrics.
type Observer interface {
	ObserveSubmission(kind string, ok bool, took time.Duration)
	SetRunning(running bool)
}

// Submission runs the HTTP call for a transition and returns the resulting status.
type Submission func(ctx context.Context) Status

type Session struct {
	timer     *timer.Timer
	submitter Submitter
	journal   Journal
	observer  Observer
	logger    zerolog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	status Status
}

// Option configures a Session.
type Option func(*Session)

func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSession(t *timer.Timer, sub Submitter, opts ...Option) *Session {
	s := &Session{
		timer:     t,
		submitter: sub,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "attendance").Logger()
	return s
}

// CheckIn moves Idle to Running: the counter resets and starts ticking and
// the status clears. It reports false, and does nothing, while Running.
func (s *Session) CheckIn() (Submission, bool) {
	if !s.timer.Start() {
		return nil, false
	}
	s.setStatus(StatusNone)
	if s.observer != nil {
		s.observer.SetRunning(true)
	}
	s.logger.Info().Msg("checked in, timer started")

	return func(ctx context.Context) Status {
		return s.submit(ctx, KindCheckIn, 0)
	}, true
}

// CheckOut moves Running to Idle, stopping the counter. It reports false,
// and does nothing, while Idle.
func (s *Session) CheckOut() (Submission, bool) {
	if !s.timer.Stop() {
		return nil, false
	}
	elapsed := s.timer.Elapsed()
	if s.observer != nil {
		s.observer.SetRunning(false)
	}
	s.logger.Info().Str("elapsed", timer.Format(elapsed)).Msg("checked out, timer stopped")

	return func(ctx context.Context) Status {
		return s.submit(ctx, KindCheckOut, elapsed)
	}, true
}

// Punch submits a single record without touching the timer.
func (s *Session) Punch(ctx context.Context, kind Kind) Status {
	return s.submit(ctx, kind, s.timer.Elapsed())
}

func (s *Session) submit(ctx context.Context, kind Kind, elapsed int) Status {
	started := s.now()

	var err error
	switch kind {
	case KindCheckIn:
		err = s.submitter.CheckIn(ctx)
	case KindCheckOut:
		err = s.submitter.CheckOut(ctx)
	default:
		return StatusNone
	}

	status := Outcome(kind, err)
	s.setStatus(status)

	took := s.now().Sub(started)
	if s.observer != nil {
		s.observer.ObserveSubmission(string(kind), err == nil, took)
	}

	entry := &punchlog.Entry{
		Kind:        string(kind),
		SubmittedAt: started,
		Elapsed:     time.Duration(elapsed) * time.Second,
		Status:      string(status),
		Succeeded:   err == nil,
	}
	if err != nil {
		entry.Detail = err.Error()
		s.logger.Warn().Err(err).Str("kind", string(kind)).Dur("took", took).Msg("submission failed")
	} else {
		s.logger.Info().Str("kind", string(kind)).Dur("took", took).Msg("submission accepted")
	}

	if s.journal != nil {
		// Record even when ctx was cancelled mid-request.
		if jerr := s.journal.Record(context.WithoutCancel(ctx), entry); jerr != nil {
			s.logger.Error().Err(jerr).Msg("record punch")
		}
	}

	return status
}

func (s *Session) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) State() State {
	if s.timer.Running() {
		return StateRunning
	}
	return StateIdle
}

func (s *Session) Elapsed() int {
	return s.timer.Elapsed()
}

// Close releases the tick source.
func (s *Session) Close() {
	s.timer.Close()
	if s.observer != nil {
		s.observer.SetRunning(false)
	}
}
