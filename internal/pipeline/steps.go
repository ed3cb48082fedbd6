package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/internal/dag"
	"github.com/leapstack-labs/olistflow/internal/export"
	"github.com/leapstack-labs/olistflow/internal/extract"
	"github.com/leapstack-labs/olistflow/internal/load"
	"github.com/leapstack-labs/olistflow/internal/transform"
)

// Step names.
const (
	StepExtract   = "extract"
	StepTransform = "transform"
	StepLoad      = "load"
)

// StepFunc executes one step and returns the number of rows it touched.
type StepFunc func(ctx context.Context, e *Engine) (int64, error)

// Step is a named unit of the pipeline.
type Step struct {
	Name        string
	Description string
	Run         StepFunc
}

// Steps lists the pipeline steps in execution order.
var Steps = []Step{
	{Name: StepExtract, Description: "read the dataset and holidays into the warehouse", Run: runExtract},
	{Name: StepTransform, Description: "run the analytical queries into result tables", Run: runTransform},
	{Name: StepLoad, Description: "export result tables as JSON", Run: runLoad},
}

// StepNames returns the step names in execution order.
func StepNames() []string {
	names := make([]string, len(Steps))
	for i, s := range Steps {
		names[i] = s.Name
	}
	return names
}

// IsStep reports whether name is a known step.
func IsStep(name string) bool {
	return slices.Contains(StepNames(), name)
}

// NewGraph builds the step graph: extract -> transform -> load.
func NewGraph() (*dag.Graph[Step], error) {
	g := dag.NewGraph[Step]()
	for _, s := range Steps {
		g.AddNode(s.Name, s)
	}
	if err := g.Chain(StepNames()...); err != nil {
		return nil, fmt.Errorf("building step graph: %w", err)
	}
	return g, nil
}

// runExtract reads every source plus the holidays and loads them. Nothing
// is written unless the whole extraction succeeds.
func runExtract(ctx context.Context, e *Engine) (int64, error) {
	ex := extract.New(e.cfg, e.logger)
	if e.holidays != nil {
		ex.Holidays = e.holidays
	}

	tables, err := ex.Extract(ctx)
	if err != nil {
		return 0, err
	}

	res, err := load.New(e.db, e.logger).LoadAll(ctx, tables)
	if err != nil {
		return 0, err
	}
	return res.Rows, nil
}

// runTransform runs the query catalog and stores each result as a
// prefixed table.
func runTransform(ctx context.Context, e *Engine) (int64, error) {
	params := transform.Params{HolidayYear: e.cfg.Holidays.Year}
	results, err := transform.NewRunner(e.db, params, e.logger).Run(ctx)
	if err != nil {
		return 0, err
	}

	loader := load.New(e.db, e.logger)
	prefixed := transform.Prefixed(results, config.ResultPrefix)
	var rows int64
	for _, name := range load.LoadOrder(prefixed) {
		n, err := loader.LoadTable(ctx, name, prefixed[name])
		if err != nil {
			return rows, err
		}
		rows += int64(n)
	}
	return rows, nil
}

// runLoad exports the result tables.
func runLoad(ctx context.Context, e *Engine) (int64, error) {
	report, err := export.New(e.db, e.cfg.ExportDir, e.logger).Export(ctx)
	var rows int64
	if report != nil {
		for _, f := range report.Files {
			rows += int64(f.Rows)
		}
		e.logger.Info("export finished",
			slog.String("dir", report.Dir),
			slog.Int("files", report.Written()))
	}
	return rows, err
}
