package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"punchclock/internal/punchlog"
	"punchclock/internal/timer"
)

type historyRow struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	SubmittedAt string `json:"submitted_at"`
	Elapsed     string `json:"elapsed"`
	Status      string `json:"status"`
	Succeeded   bool   `json:"succeeded"`
	Detail      string `json:"detail,omitempty"`
}

func newHistoryCmd(v *viper.Viper, flags *globalFlags) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded punches",
		Long: `List punches from the journal, newest first.

The journal lives in memory unless journal_path (or --journal) points at a
file, so history only has something to show for a file-backed journal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(v, flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if a.cfg.JournalPath == punchlog.MemoryPath {
				fmt.Fprintln(out, "Journal is in memory; set journal_path to keep punches between runs.")
				return nil
			}

			entries, err := a.journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([]historyRow, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, historyRow{
					ID:          e.ID,
					Kind:        e.Kind,
					SubmittedAt: e.SubmittedAt.Local().Format("2006-01-02 15:04:05"),
					Elapsed:     timer.Format(int(e.Elapsed.Seconds())),
					Status:      e.Status,
					Succeeded:   e.Succeeded,
					Detail:      e.Detail,
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tKIND\tELAPSED\tSTATUS")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.SubmittedAt, r.Kind, r.Elapsed, r.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of punches to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}
