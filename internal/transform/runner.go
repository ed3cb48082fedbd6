package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Runner executes catalog queries through a warehouse adapter.
type Runner struct {
	Adapter core.Adapter
	Params  Params
	Logger  *slog.Logger
}

// NewRunner creates a Runner. If logger is nil, a discard logger is used.
func NewRunner(adp core.Adapter, params Params, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if params.HolidayYear == 0 {
		params.HolidayYear = config.DefaultHolidaysYear
	}
	return &Runner{Adapter: adp, Params: params, Logger: logger}
}

func (r *Runner) dialect() string {
	if d := r.Adapter.DialectConfig(); d != nil {
		return d.Name
	}
	return "sqlite"
}

// Run executes every catalog query and returns the results keyed by query
// name. Queries do not depend on each other; the first failure is returned.
func (r *Runner) Run(ctx context.Context) (map[string]*core.Table, error) {
	results := make(map[string]*core.Table, len(Catalog))
	for _, q := range Catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := r.RunQuery(ctx, q.Name)
		if err != nil {
			return nil, err
		}
		results[q.Name] = t
	}
	return results, nil
}

// RunQuery executes a single catalog query.
func (r *Runner) RunQuery(ctx context.Context, name string) (*core.Table, error) {
	q, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown query %q", name)
	}

	sqlStr, err := SQL(r.dialect(), name, r.Params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := r.Adapter.QueryTable(ctx, name, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	convertColumns(t, q)

	r.Logger.Info("query executed",
		slog.String("query", name),
		slog.Int("rows", t.Len()),
		slog.Duration("duration", time.Since(start)))
	return t, nil
}

func convertColumns(t *core.Table, q Query) {
	for _, name := range q.Timestamps {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		t.Columns[idx].Type = core.TypeTimestamp
		for _, row := range t.Rows {
			row[idx] = core.CoerceTimestamp(row[idx])
		}
	}
	for _, name := range q.Booleans {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			continue
		}
		t.Columns[idx].Type = core.TypeBoolean
		for _, row := range t.Rows {
			row[idx] = toBool(row[idx])
		}
	}
}

func toBool(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x == "1" || x == "true" || x == "t"
	default:
		return nil
	}
}

// Prefixed returns results renamed to prefix+name, for re-loading as
// result tables.
func Prefixed(results map[string]*core.Table, prefix string) map[string]*core.Table {
	out := make(map[string]*core.Table, len(results))
	for name, t := range results {
		key := prefix + name
		c := t.Clone()
		c.Name = key
		out[key] = c
	}
	return out
}
