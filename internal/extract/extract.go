// Package extract reads the Olist CSV files and the public holidays API
// into in-memory tables.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Extractor produces the raw table set of a run.
type Extractor struct {
	DatasetDir  string
	Sources     []config.Source
	Holidays    HolidayFetcher
	HolidayYear int
	Logger      *slog.Logger
}

// New creates an Extractor from the pipeline configuration.
// If logger is nil, a discard logger is used.
func New(cfg *config.PipelineConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	year := config.DefaultHolidaysYear
	if cfg.Holidays != nil && cfg.Holidays.Year != 0 {
		year = cfg.Holidays.Year
	}
	return &Extractor{
		DatasetDir:  cfg.DatasetDir,
		Sources:     cfg.Mapping(),
		Holidays:    NewHolidayClient(cfg.Holidays, logger),
		HolidayYear: year,
		Logger:      logger,
	}
}

// Extract reads every mapped CSV file and fetches the holidays.
// The result is keyed by table name and holds one entry per source plus
// public_holidays. Any failure aborts the whole extraction and no partial
// result is returned.
func (e *Extractor) Extract(ctx context.Context) (map[string]*core.Table, error) {
	if err := config.ValidateSources(e.Sources); err != nil {
		return nil, fmt.Errorf("invalid source mapping: %w", err)
	}

	tables := make(map[string]*core.Table, len(e.Sources)+1)
	for _, src := range e.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		path := filepath.Join(e.DatasetDir, src.File)
		t, err := ReadCSVFile(path, src.Table)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", src.Table, err)
		}
		tables[src.Table] = t

		e.Logger.Info("extracted csv",
			slog.String("table", src.Table),
			slog.String("file", src.File),
			slog.Int("rows", t.Len()),
			slog.Duration("duration", time.Since(start)))
	}

	if e.Holidays == nil {
		return nil, fmt.Errorf("%w: no holiday client configured", ErrHolidayFetch)
	}
	holidays, err := e.Holidays.Fetch(ctx, e.HolidayYear)
	if err != nil {
		return nil, err
	}
	holidays.Name = config.HolidaysTable
	tables[config.HolidaysTable] = holidays

	e.Logger.Info("extracted public holidays",
		slog.Int("year", e.HolidayYear),
		slog.Int("rows", holidays.Len()))

	return tables, nil
}
