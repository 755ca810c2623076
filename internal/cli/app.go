package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"punchclock/internal/attendance"
	"punchclock/internal/config"
	"punchclock/internal/hrclient"
	"punchclock/internal/logger"
	"punchclock/internal/metrics"
	"punchclock/internal/punchlog"
	"punchclock/internal/timer"
)

// app holds the long-lived dependencies shared by the commands.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
	journal   *punchlog.Repository
	metrics   *metrics.Recorder
	client    *hrclient.Client
}

// newApp loads configuration and opens the logger and journal. console
// receives human readable log lines; nil keeps logs in the file only.
func newApp(v *viper.Viper, flags *globalFlags, console io.Writer) (*app, error) {
	cfg, err := config.Load(v, flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	journal, err := punchlog.NewRepository(cfg.JournalPath)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	log.Debug().
		Str("checkin_url", cfg.CheckInURL).
		Str("checkout_url", cfg.CheckOutURL).
		Str("payload", cfg.Payload).
		Dur("timeout", cfg.Timeout).
		Str("journal", cfg.JournalPath).
		Msg("configuration loaded")

	a := &app{
		cfg:       cfg,
		logger:    log,
		logCloser: logCloser,
		journal:   journal,
		metrics:   metrics.New(),
		client:    hrclient.New(cfg.HRClient()),
	}

	return a, nil
}

func (a *app) newSession(opts ...timer.Option) *attendance.Session {
	return attendance.NewSession(
		timer.New(opts...),
		a.client,
		attendance.WithJournal(a.journal),
		attendance.WithObserver(a.metrics),
		attendance.WithLogger(a.logger),
	)
}

func (a *app) Close() {
	if err := a.journal.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close journal")
	}
	_ = a.logCloser.Close()
}
