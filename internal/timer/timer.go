package timer

import (
	"fmt"
	"sync"
	"time"
)

// Ticker is the tick source driving a Timer.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Timer counts whole seconds between Start and Stop.
type Timer struct {
	mu        sync.RWMutex
	elapsed   int
	running   bool
	interval  time.Duration
	newTicker TickerFunc
	onTick    func(elapsed int)
	stopChan  chan struct{}
	done      chan struct{}
}

// Option configures a Timer.
type Option func(*Timer)

// WithInterval overrides the one second tick interval.
func WithInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithTicker replaces the tick source.
func WithTicker(fn TickerFunc) Option {
	return func(t *Timer) {
		if fn != nil {
			t.newTicker = fn
		}
	}
}

// WithOnTick registers a callback invoked after every increment.
// It runs on the tick goroutine and must not block.
func WithOnTick(fn func(elapsed int)) Option {
	return func(t *Timer) {
		t.onTick = fn
	}
}

func New(opts ...Option) *Timer {
	t := &Timer{
		interval:  time.Second,
		newTicker: NewTicker,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start resets the counter and begins ticking. It reports false when the
// timer was already running, in which case nothing changes.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}

	t.elapsed = 0
	t.running = true
	t.stopChan = make(chan struct{})
	t.done = make(chan struct{})

	go t.run(t.newTicker(t.interval), t.stopChan, t.done)
	return true
}

func (t *Timer) run(ticker Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			t.mu.Lock()
			// Stop may have won the lock while this tick was pending.
			select {
			case <-stop:
				t.mu.Unlock()
				return
			default:
			}
			t.elapsed++
			elapsed := t.elapsed
			onTick := t.onTick
			t.mu.Unlock()

			if onTick != nil {
				onTick(elapsed)
			}
		}
	}
}

// Stop halts the counter. It reports false when the timer was not running.
// No increment happens after Stop returns.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return false
	}

	t.running = false
	close(t.stopChan)
	return true
}

// Close stops the timer and waits for the tick goroutine to exit.
func (t *Timer) Close() {
	t.Stop()

	t.mu.RLock()
	done := t.done
	t.mu.RUnlock()

	if done != nil {
		<-done
	}
}

func (t *Timer) Elapsed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.elapsed
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Format renders seconds as HH:MM:SS. Hours are not capped.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
