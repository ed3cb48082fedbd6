package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/olistflow/internal/dag"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Selection chooses which steps a run executes.
type Selection struct {
	// Step runs only this step.
	Step string
	// From runs this step and every step downstream of it.
	From string
}

// StepResult is the outcome of one executed step.
type StepResult struct {
	Step     string
	Status   core.StepRunStatus
	Rows     int64
	Duration time.Duration
	Err      error
}

// Result is the outcome of a run.
type Result struct {
	Run   *core.Run
	Steps []StepResult
}

// Run executes every step in dependency order.
func (e *Engine) Run(ctx context.Context, env string) (*Result, error) {
	return e.RunSelected(ctx, env, Selection{})
}

// RunSelected executes the selected steps in dependency order. Steps
// outside the selection must already have produced their tables. The first
// failing step fails the run and the steps after it are skipped.
func (e *Engine) RunSelected(ctx context.Context, env string, sel Selection) (*Result, error) {
	if env == "" {
		env = DefaultEnvironment
	}
	steps, err := e.selectSteps(sel)
	if err != nil {
		return nil, err
	}

	e.logger.Info("starting run", slog.String("environment", env), slog.Any("steps", stepIDs(steps)))

	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}

	run, err := e.store.CreateRun(env)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	e.logger.Debug("created run", slog.String("run_id", run.ID))

	records := make([]*core.StepRun, len(steps))
	for i, n := range steps {
		records[i] = &core.StepRun{RunID: run.ID, Step: n.ID, Status: core.StepRunStatusPending}
		if err := e.store.RecordStepRun(records[i]); err != nil {
			_ = e.store.CompleteRun(run.ID, core.RunStatusFailed, err.Error())
			return nil, err
		}
	}

	result := &Result{}
	runErr := e.executeSteps(ctx, steps, records, result)

	if runErr != nil {
		e.logger.Error("run failed", slog.String("run_id", run.ID), slog.String("error", runErr.Error()))
		_ = e.store.CompleteRun(run.ID, core.RunStatusFailed, runErr.Error())
	} else {
		e.logger.Info("run completed", slog.String("run_id", run.ID))
		_ = e.store.CompleteRun(run.ID, core.RunStatusCompleted, "")
	}

	if got, err := e.store.GetRun(run.ID); err == nil {
		run = got
	}
	result.Run = run
	return result, runErr
}

func (e *Engine) executeSteps(ctx context.Context, steps []*dag.Node[Step], records []*core.StepRun, result *Result) error {
	for i, n := range steps {
		_ = e.store.UpdateStepRun(records[i].ID, core.StepRunStatusRunning, 0, "")

		start := time.Now()
		rows, err := n.Data.Run(ctx, e)
		sr := StepResult{Step: n.ID, Rows: rows, Duration: time.Since(start)}

		if err != nil {
			err = fmt.Errorf("%s: %w", n.ID, err)
			sr.Status, sr.Err = core.StepRunStatusFailed, err
			result.Steps = append(result.Steps, sr)
			_ = e.store.UpdateStepRun(records[i].ID, core.StepRunStatusFailed, rows, err.Error())

			for j := i + 1; j < len(steps); j++ {
				_ = e.store.UpdateStepRun(records[j].ID, core.StepRunStatusSkipped, 0,
					fmt.Sprintf("skipped: upstream step %s failed", n.ID))
				result.Steps = append(result.Steps, StepResult{Step: steps[j].ID, Status: core.StepRunStatusSkipped})
			}
			return err
		}

		e.logger.Info("step finished",
			slog.String("step", n.ID),
			slog.Int64("rows", rows),
			slog.Duration("duration", sr.Duration))
		sr.Status = core.StepRunStatusSuccess
		result.Steps = append(result.Steps, sr)
		_ = e.store.UpdateStepRun(records[i].ID, core.StepRunStatusSuccess, rows, "")
	}
	return nil
}

func (e *Engine) selectSteps(sel Selection) ([]*dag.Node[Step], error) {
	if sel.Step != "" && sel.From != "" {
		return nil, fmt.Errorf("step and from are mutually exclusive")
	}

	var ids []string
	switch {
	case sel.Step != "":
		ids = []string{sel.Step}
	case sel.From != "":
		ids = e.graph.Downstream(sel.From)
	}
	for _, id := range []string{sel.Step, sel.From} {
		if id != "" && !IsStep(id) {
			return nil, fmt.Errorf("unknown step %q (available: %v)", id, StepNames())
		}
	}

	sorted, err := e.graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if ids == nil {
		return sorted, nil
	}

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	out := make([]*dag.Node[Step], 0, len(ids))
	for _, n := range sorted {
		if keep[n.ID] {
			out = append(out, n)
		}
	}
	return out, nil
}

func stepIDs(steps []*dag.Node[Step]) []string {
	ids := make([]string, len(steps))
	for i, n := range steps {
		ids[i] = n.ID
	}
	return ids
}

// Plan returns the names of the steps sel would execute, in order.
func (e *Engine) Plan(sel Selection) ([]string, error) {
	steps, err := e.selectSteps(sel)
	if err != nil {
		return nil, err
	}
	return stepIDs(steps), nil
}
