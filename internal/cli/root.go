// Package cli wires configuration, logging and the attendance session into
// the punchclock commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"punchclock/internal/config"
)

// globalFlags are shared by every command.
type globalFlags struct {
	ConfigFile string
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "punchclock",
		Short: "Attendance check-in/check-out timer",
		Long: `punchclock keeps an elapsed-time clock for the working session and
submits check-in and check-out records to the HR attendance endpoints.

Run without a subcommand to open the terminal UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), v, flags)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "config file (default is ./punchclock.yaml or $HOME/punchclock.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().String("journal", "", "punch journal path (default keeps punches in memory)")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9100")

	_ = v.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("journal_path", cmd.PersistentFlags().Lookup("journal"))
	_ = v.BindPFlag("metrics_addr", cmd.Flags().Lookup("metrics-addr"))

	cmd.AddCommand(
		newPunchCmd(v, flags, punchCheckIn),
		newPunchCmd(v, flags, punchCheckOut),
		newHistoryCmd(v, flags),
	)

	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
