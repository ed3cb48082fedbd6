package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

// ErrNotConnected is returned by operations that need an open connection.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations and set Dialect;
// it supplies everything except Connect.
type BaseSQLAdapter struct {
	DB      *sqlx.DB
	Cfg     core.AdapterConfig
	Dialect *core.DialectConfig
	Logger  *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// DialectConfig returns the adapter's dialect.
func (b *BaseSQLAdapter) DialectConfig() *core.DialectConfig {
	return b.Dialect
}

func (b *BaseSQLAdapter) dialect() *core.DialectConfig {
	if b.Dialect != nil {
		return b.Dialect
	}
	return &core.DialectConfig{Name: "generic", Quote: `"`}
}

// QueryTable runs sqlStr and reads the whole result set into a table named name.
// Column types are inferred from the returned values; columns that are
// entirely NULL fall back to the type reported by the driver.
func (b *BaseSQLAdapter) QueryTable(ctx context.Context, name, sqlStr string) (*core.Table, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	rows, err := b.DB.QueryxContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	names := make([]string, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.Name()
	}
	table := core.NewTable(name, names...)

	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	table.InferColumnTypes()
	for i, ct := range colTypes {
		if !columnHasValues(table, i) {
			table.Columns[i].Type = TypeFromDatabaseName(ct.DatabaseTypeName())
		}
	}
	return table, nil
}

func columnHasValues(t *core.Table, idx int) bool {
	for _, row := range t.Rows {
		if row[idx] != nil {
			return true
		}
	}
	return false
}

// WriteTable replaces t.Name with the contents of t inside one transaction:
// drop if exists, create, insert every row.
func (b *BaseSQLAdapter) WriteTable(ctx context.Context, t *core.Table) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	if t == nil || t.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.Name)
	}

	d := b.dialect()
	start := time.Now()

	tx, err := b.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+d.QuoteIdent(t.Name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", t.Name, err)
	}
	if _, err := tx.ExecContext(ctx, d.CreateTableSQL(t)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}

	if len(t.Rows) > 0 {
		stmt, err := tx.PreparexContext(ctx, d.InsertSQL(t))
		if err != nil {
			return fmt.Errorf("failed to prepare insert for %s: %w", t.Name, err)
		}
		defer func() { _ = stmt.Close() }()

		for i, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("table %s row %d: expected %d values, got %d", t.Name, i, len(t.Columns), len(row))
			}
			args := make([]any, len(row))
			for j, v := range row {
				args[j] = bindValue(v, d)
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert row %d into %s: %w", i, t.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", t.Name, err)
	}

	if b.Logger != nil {
		b.Logger.Debug("table written",
			slog.String("table", t.Name),
			slog.Int("rows", len(t.Rows)),
			slog.Duration("duration", time.Since(start)))
	}
	return nil
}

// ListTables returns the sorted names of all tables starting with prefix.
func (b *BaseSQLAdapter) ListTables(ctx context.Context, prefix string) ([]string, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	d := b.dialect()
	if d.ListTablesSQL == "" {
		return nil, fmt.Errorf("dialect %s cannot list tables", d.Name)
	}

	var all []string
	if err := b.DB.SelectContext(ctx, &all, d.ListTablesSQL); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	names := make([]string, 0, len(all))
	for _, n := range all {
		if strings.HasPrefix(n, prefix) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetTableMetadata retrieves the columns and row count of a table.
func (b *BaseSQLAdapter) GetTableMetadata(ctx context.Context, table string) (*core.TableMetadata, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	d := b.dialect()
	quoted := d.QuoteIdent(table)

	rows, err := b.DB.QueryxContext(ctx, "SELECT * FROM "+quoted+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("table %s not found: %w", table, err)
	}
	colTypes, err := rows.ColumnTypes()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	columns := make([]core.Column, len(colTypes))
	for i, ct := range colTypes {
		nullable, ok := ct.Nullable()
		columns[i] = core.Column{
			Name:     ct.Name(),
			Type:     TypeFromDatabaseName(ct.DatabaseTypeName()),
			Nullable: nullable || !ok,
			Position: i + 1,
		}
	}

	var rowCount int64
	if err := b.DB.GetContext(ctx, &rowCount, "SELECT COUNT(*) FROM "+quoted); err != nil {
		// Non-fatal error, just set to 0
		rowCount = 0
	}

	return &core.TableMetadata{
		Name:     table,
		Columns:  columns,
		RowCount: rowCount,
	}, nil
}

// TypeFromDatabaseName maps a driver-reported type name to a column type.
func TypeFromDatabaseName(name string) core.ColumnType {
	n := strings.ToUpper(name)
	switch {
	case n == "":
		return core.TypeText
	case strings.Contains(n, "INT"):
		return core.TypeInteger
	case strings.Contains(n, "REAL"), strings.Contains(n, "DOUBLE"), strings.Contains(n, "FLOAT"),
		strings.Contains(n, "DECIMAL"), strings.Contains(n, "NUMERIC"):
		return core.TypeReal
	case strings.Contains(n, "BOOL"):
		return core.TypeBoolean
	case strings.Contains(n, "TIME"), strings.Contains(n, "DATE"):
		return core.TypeTimestamp
	default:
		return core.TypeText
	}
}

// normalizeValue converts driver values to the cell types of core.Table.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x) //nolint:gosec // values come from COUNT/SUM aggregates
	case float32:
		return float64(x)
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case interface{ Float64() float64 }:
		return x.Float64()
	default:
		return v
	}
}

func bindValue(v any, d *core.DialectConfig) any {
	if ts, ok := v.(time.Time); ok && d.TimestampLayout != "" {
		return ts.UTC().Format(d.TimestampLayout)
	}
	return v
}
