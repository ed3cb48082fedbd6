package core

import (
	"context"
	"database/sql"
)

// Adapter defines the interface that all warehouse adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// QueryTable executes a SQL statement and reads the full result into a Table.
	QueryTable(ctx context.Context, name, sql string) (*Table, error)

	// WriteTable replaces the table named t.Name with the contents of t.
	WriteTable(ctx context.Context, t *Table) error

	// ListTables returns the names of all tables starting with prefix, sorted.
	ListTables(ctx context.Context, prefix string) ([]string, error)

	// GetTableMetadata retrieves metadata for a table.
	GetTableMetadata(ctx context.Context, table string) (*TableMetadata, error)

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type    string
	Path    string
	Options map[string]string
}

// TableMetadata holds metadata about a database table.
type TableMetadata struct {
	Name     string
	Columns  []Column
	RowCount int64
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}
