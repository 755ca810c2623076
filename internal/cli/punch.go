package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"punchclock/internal/attendance"
)

var errPunchFailed = errors.New("submission failed")

type punchSpec struct {
	kind  attendance.Kind
	use   string
	short string
}

var (
	punchCheckIn = punchSpec{
		kind:  attendance.KindCheckIn,
		use:   "check-in",
		short: "Submit a single check-in record",
	}
	punchCheckOut = punchSpec{
		kind:  attendance.KindCheckOut,
		use:   "check-out",
		short: "Submit a single check-out record",
	}
)

func newPunchCmd(v *viper.Viper, flags *globalFlags, punch punchSpec) *cobra.Command {
	return &cobra.Command{
		Use:   punch.use,
		Short: punch.short,
		Long: punch.short + `, without starting the terminal UI or the timer.
Exits non-zero when the endpoint rejects the record or cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(v, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			session := a.newSession()
			defer session.Close()

			status := session.Punch(cmd.Context(), punch.kind)
			fmt.Fprintln(cmd.OutOrStdout(), status)

			if status != attendance.Outcome(punch.kind, nil) {
				return errPunchFailed
			}
			return nil
		},
	}
}
