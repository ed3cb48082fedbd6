// Package pipeline runs the extract, transform and load steps in
// dependency order and records every run in the state store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/internal/dag"
	"github.com/leapstack-labs/olistflow/internal/extract"
	"github.com/leapstack-labs/olistflow/internal/state"
	"github.com/leapstack-labs/olistflow/pkg/adapter"
	"github.com/leapstack-labs/olistflow/pkg/core"

	// Warehouse adapters selectable through target.type.
	_ "github.com/leapstack-labs/olistflow/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/olistflow/pkg/adapters/sqlite"
)

// DefaultEnvironment labels runs when no environment is configured.
const DefaultEnvironment = "default"

// Engine orchestrates the pipeline steps.
type Engine struct {
	// Warehouse adapter (lazy initialized)
	db          core.Adapter
	dbConfig    core.AdapterConfig
	dbConnected bool
	dbMu        sync.Mutex

	logger   *slog.Logger
	store    state.Store
	cfg      *config.PipelineConfig
	holidays extract.HolidayFetcher
	graph    *dag.Graph[Step]
}

// Config holds engine configuration.
type Config struct {
	// Pipeline is the resolved pipeline configuration.
	Pipeline *config.PipelineConfig
	// StatePath is the path to the SQLite run-history database.
	StatePath string
	// Holidays replaces the HTTP holiday client when set.
	Holidays extract.HolidayFetcher
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The warehouse is connected on first use.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("pipeline configuration is required")
	}
	config.ApplyDefaults(cfg.Pipeline)
	if err := config.ValidateTarget(cfg.Pipeline.Target); err != nil {
		return nil, err
	}

	statePath := cfg.StatePath
	if statePath == "" {
		statePath = state.DefaultPath
	}

	logger.Debug("initializing pipeline", slog.String("state", statePath), slog.String("target", cfg.Pipeline.Target.Type))

	store := state.NewSQLiteStore(logger)
	if err := store.Open(statePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	graph, err := NewGraph()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &Engine{
		dbConfig: cfg.Pipeline.Target.AdapterConfig(),
		logger:   logger,
		store:    store,
		cfg:      cfg.Pipeline,
		holidays: cfg.Holidays,
		graph:    graph,
	}, nil
}

// ensureDBConnected lazily connects to the warehouse.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to warehouse", slog.String("adapter_type", e.dbConfig.Type))

	db, err := adapter.NewAdapter(e.dbConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create warehouse adapter: %w", err)
	}
	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	e.db = db
	e.dbConnected = true
	return nil
}

// Adapter returns the connected warehouse adapter.
func (e *Engine) Adapter(ctx context.Context) (core.Adapter, error) {
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}
	return e.db, nil
}

// Store returns the run-history store.
func (e *Engine) Store() state.Store {
	return e.store
}

// Config returns the pipeline configuration.
func (e *Engine) Config() *config.PipelineConfig {
	return e.cfg
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing pipeline")

	var errs []error
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
