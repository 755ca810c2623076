package internal

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"punchclock/internal/attendance"
	"punchclock/internal/punchlog"
)

// logViewLimit caps the entries loaded into the punch log view.
const logViewLimit = 50

// DefaultDrainTimeout bounds how long Close waits for in-flight submissions.
const DefaultDrainTimeout = 20 * time.Second

// MsgTick asks for a redraw after the timer advanced.
type MsgTick struct {
	Elapsed int
}

// MsgStatus carries the outcome of a finished submission.
type MsgStatus struct {
	Status attendance.Status
}

type msgLogs struct {
	entries []punchlog.Entry
	err     error
}

// LogSource lists recent punches for the log view.
type LogSource interface {
	Recent(ctx context.Context, limit int) ([]punchlog.Entry, error)
}

type Model struct {
	session *attendance.Session
	logs    LogSource
	ctx     context.Context
	logger  zerolog.Logger
	now     func() time.Time

	// Submissions outlive quit: they run detached from ctx and Close waits
	// for them, up to drainTimeout.
	inflight     sync.WaitGroup
	drainTimeout time.Duration

	keys keyMap
	help help.Model

	Width int

	// Punch log viewer state
	ShowLogView   bool
	LogViewScroll int
	Logs          []punchlog.Entry
	LogErr        error
}

// Option configures a Model.
type Option func(*Model)

func WithLogSource(src LogSource) Option {
	return func(m *Model) { m.logs = src }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithDrainTimeout overrides DefaultDrainTimeout.
func WithDrainTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.drainTimeout = d
		}
	}
}

// NewModel wraps session. ctx bounds the log view queries; submissions
// started from the UI are never cancelled by it.
func NewModel(ctx context.Context, session *attendance.Session, opts ...Option) *Model {
	m := &Model{
		session:      session,
		ctx:          ctx,
		logger:       zerolog.Nop(),
		now:          time.Now,
		drainTimeout: DefaultDrainTimeout,
		keys:         newKeyMap(),
		help:         help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.keys.syncEnabled(session.State() == attendance.StateRunning)
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		return m, nil
	case MsgStatus:
		m.logger.Debug().Str("status", string(msg.Status)).Msg("status updated")
		return m, nil
	case msgLogs:
		m.Logs = msg.entries
		m.LogErr = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowLogView {
		return m.logView()
	}
	return m.mainView()
}

// Close waits for in-flight submissions, then tears the session down so no
// ticker outlives the program.
func (m *Model) Close() {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(m.drainTimeout):
		m.logger.Warn().Dur("timeout", m.drainTimeout).Msg("gave up waiting for in-flight submissions")
	}
	m.session.Close()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowLogView {
		return m.handleLogViewInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.CheckIn):
		submit, ok := m.session.CheckIn()
		m.keys.syncEnabled(m.session.State() == attendance.StateRunning)
		if !ok {
			return m, nil
		}
		return m, m.submitCmd(submit)
	case key.Matches(msg, m.keys.CheckOut):
		submit, ok := m.session.CheckOut()
		m.keys.syncEnabled(m.session.State() == attendance.StateRunning)
		if !ok {
			return m, nil
		}
		return m, m.submitCmd(submit)
	case key.Matches(msg, m.keys.Log):
		m.ShowLogView = true
		m.LogViewScroll = 0
		return m, m.loadLogsCmd()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleLogViewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "l":
		m.ShowLogView = false
		m.Logs = nil
		m.LogErr = nil
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		maxScroll := len(m.Logs) - 1
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.LogViewScroll < maxScroll {
			m.LogViewScroll++
		}
	}
	return m, nil
}

func (m *Model) submitCmd(submit attendance.Submission) tea.Cmd {
	ctx := context.WithoutCancel(m.ctx)
	m.inflight.Add(1)
	return func() tea.Msg {
		defer m.inflight.Done()
		return MsgStatus{Status: submit(ctx)}
	}
}

func (m *Model) loadLogsCmd() tea.Cmd {
	src := m.logs
	ctx := m.ctx
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := src.Recent(ctx, logViewLimit)
		return msgLogs{entries: entries, err: err}
	}
}
