package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show pipeline run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := openPipeline(cmd)
			if err != nil {
				return err
			}
			defer cmdCtx.Close()

			runs, err := cmdCtx.Engine.Store().ListRuns(limit)
			if err != nil {
				return err
			}

			infos := make([]output.RunInfo, len(runs))
			for i, run := range runs {
				infos[i] = output.RunInfo{
					ID:          run.ID,
					Environment: run.Environment,
					Status:      string(run.Status),
					StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
					DurationMS:  run.Duration().Milliseconds(),
					Error:       run.Error,
				}
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(infos)
			}
			if len(infos) == 0 {
				r.Muted("No runs recorded yet.")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, run := range runs {
				duration := "-"
				if run.CompletedAt != nil {
					duration = output.FormatDuration(run.Duration())
				}
				rows[i] = []string{
					run.ID,
					run.Environment,
					r.Status(string(run.Status)),
					run.StartedAt.Local().Format(time.DateTime),
					duration,
				}
			}
			r.Table([]string{"Run", "Environment", "Status", "Started", "Duration"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}
