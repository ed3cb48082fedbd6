package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/leapstack-labs/olistflow/pkg/adapter"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Dialect is the SQLite dialect configuration.
var Dialect = &core.DialectConfig{
	Name:  "sqlite",
	Quote: `"`,
	Types: map[core.ColumnType]string{
		core.TypeInteger:   "INTEGER",
		core.TypeReal:      "REAL",
		core.TypeBoolean:   "BOOLEAN",
		core.TypeText:      "TEXT",
		core.TypeTimestamp: "TIMESTAMP",
	},
	TimestampLayout: "2006-01-02 15:04:05",
	ListTablesSQL:   "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, Dialect: Dialect},
	}
}

// Connect opens (creating if needed) the database file at cfg.Path.
// Use ":memory:" or an empty path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sqlx.Open("sqlite", buildDSN(path, cfg.Options))
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildDSN appends pragmas to the file path. Options other than
// "busy_timeout" and "journal_mode" are ignored.
func buildDSN(path string, opts map[string]string) string {
	busy := "5000"
	if v, ok := opts["busy_timeout"]; ok {
		busy = v
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+busy+")")
	if mode, ok := opts["journal_mode"]; ok {
		q.Add("_pragma", "journal_mode("+mode+")")
	}
	return path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
