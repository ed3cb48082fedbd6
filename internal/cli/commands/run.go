package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/olistflow/internal/cli/output"
	"github.com/leapstack-labs/olistflow/internal/pipeline"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Step       string
	From       string
	JSONOutput bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline",
		Long: `Run the pipeline steps in dependency order: extract, transform, load.

extract reads the dataset CSV files and the public holidays into the
warehouse, transform runs the analytical queries into result tables and
load exports every result table as JSON for the dashboard.

Every run is recorded in the state database; see "olistflow runs".`,
		Example: `  # Run every step
  olistflow run

  # Re-run only the queries
  olistflow run --step transform

  # Run transform and everything after it
  olistflow run --from transform

  # Emit JSON lines for CI/CD integration
  olistflow run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Step, "step", "", "Run only this step")
	cmd.Flags().StringVar(&opts.From, "from", "", "Run this step and every step after it")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output as JSON lines for progress tracking")
	cmd.MarkFlagsMutuallyExclusive("step", "from")

	stepCompletion := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return pipeline.StepNames(), cobra.ShellCompDirectiveNoFileComp
	}
	_ = cmd.RegisterFlagCompletionFunc("step", stepCompletion)
	_ = cmd.RegisterFlagCompletionFunc("from", stepCompletion)

	return cmd
}

// NewStepCommand creates a shortcut command that runs a single step.
func NewStepCommand(use, step, short string) *cobra.Command {
	opts := &RunOptions{Step: step}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "Output as JSON lines for progress tracking")
	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cmdCtx, err := openPipeline(cmd)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	sel := pipeline.Selection{Step: opts.Step, From: opts.From}
	plan, err := cmdCtx.Engine.Plan(sel)
	if err != nil {
		return err
	}
	if slices.Contains(plan, pipeline.StepExtract) {
		if err := cmdCtx.Cfg.ValidateDirectories(); err != nil {
			return err
		}
	}

	r := cmdCtx.Renderer
	jsonOut := opts.JSONOutput || r.EffectiveMode() == output.ModeJSON
	start := time.Now()

	if jsonOut {
		_ = r.JSONLine(output.RunEvent{Event: "run_start", Timestamp: timestamp(start), Steps: plan})
	} else {
		r.Header(1, "Run")
		r.Muted(fmt.Sprintf("Steps: %v", plan))
	}

	result, runErr := cmdCtx.Engine.RunSelected(cmd.Context(), cmdCtx.Cfg.Environment, sel)
	if result == nil {
		return runErr
	}

	if jsonOut {
		renderRunJSON(r, result, start)
	} else {
		renderRunText(r, result, start)
	}

	if runErr != nil {
		return fmt.Errorf("run %s failed: %w", result.Run.ID, runErr)
	}
	return nil
}

func renderRunText(r *output.Renderer, result *pipeline.Result, start time.Time) {
	for _, s := range result.Steps {
		detail := ""
		switch {
		case s.Err != nil:
			detail = s.Err.Error()
		case s.Status == "success":
			detail = fmt.Sprintf("%s rows in %s", output.FormatCount(s.Rows), output.FormatDuration(s.Duration))
		}
		r.StatusLine(s.Step, string(s.Status), detail)
	}
	r.Println("")
	r.Printf("Run %s: %s in %s\n",
		r.Styles().ID.Render(result.Run.ID),
		r.Status(string(result.Run.Status)),
		output.FormatDuration(time.Since(start)))
}

func renderRunJSON(r *output.Renderer, result *pipeline.Result, start time.Time) {
	for _, s := range result.Steps {
		ev := output.RunEvent{
			Event:     "step_complete",
			Timestamp: timestamp(time.Now()),
			RunID:     result.Run.ID,
			Step:      s.Step,
			Status:    string(s.Status),
			Rows:      s.Rows,
			ElapsedMS: s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			ev.Error = s.Err.Error()
		}
		_ = r.JSONLine(ev)
	}
	_ = r.JSONLine(output.RunEvent{
		Event:     "run_complete",
		Timestamp: timestamp(time.Now()),
		RunID:     result.Run.ID,
		Status:    string(result.Run.Status),
		ElapsedMS: time.Since(start).Milliseconds(),
		Error:     result.Run.Error,
	})
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
