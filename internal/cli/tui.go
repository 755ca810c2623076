package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"punchclock/internal"
	"punchclock/internal/metrics"
	"punchclock/internal/timer"
)

func runTUI(ctx context.Context, v *viper.Viper, flags *globalFlags) error {
	a, err := newApp(v, flags, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metricsDone := make(chan struct{})
	if addr := a.cfg.MetricsAddr; addr != "" {
		go func() {
			defer close(metricsDone)
			if err := metrics.Serve(ctx, addr, a.metrics.Handler(), a.logger); err != nil {
				a.logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	} else {
		close(metricsDone)
	}
	// The metrics server logs its shutdown; finish before the log sink closes.
	defer func() {
		cancel()
		<-metricsDone
	}()

	var p *tea.Program
	session := a.newSession(timer.WithOnTick(func(elapsed int) {
		// Send blocks while Update runs; never hold up the tick goroutine.
		go p.Send(internal.MsgTick{Elapsed: elapsed})
	}))

	m := internal.NewModel(ctx, session,
		internal.WithLogSource(a.journal),
		internal.WithLogger(a.logger),
		internal.WithDrainTimeout(a.cfg.Timeout+5*time.Second),
	)
	// Runs first: pending punches reach the journal before it closes.
	defer m.Close()

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	a.logger.Info().Msg("session started")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	a.logger.Info().Msg("session ended")
	return nil
}
