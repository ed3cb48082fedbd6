package core

import (
	"fmt"
	"strings"
)

// DialectConfig is the static description of a warehouse SQL dialect.
// Adapters use it to render DDL and parameterised inserts; the query
// catalog uses Name to pick the matching SQL files.
type DialectConfig struct {
	// Name is the dialect identifier ("sqlite", "duckdb").
	Name string

	// Quote is the identifier quote character.
	Quote string

	// Types maps a column type to the engine's DDL type name.
	Types map[ColumnType]string

	// TimestampLayout, when set, makes timestamps bind as formatted text
	// instead of time.Time values.
	TimestampLayout string

	// ListTablesSQL returns one column with every user table name.
	ListTablesSQL string
}

// QuoteIdent quotes an identifier, doubling any embedded quote characters.
func (d *DialectConfig) QuoteIdent(name string) string {
	q := d.Quote
	if q == "" {
		q = `"`
	}
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// TypeName returns the DDL type for a column type, falling back to TEXT.
func (d *DialectConfig) TypeName(t ColumnType) string {
	if name, ok := d.Types[t]; ok {
		return name
	}
	if name, ok := d.Types[TypeText]; ok {
		return name
	}
	return "TEXT"
}

// CreateTableSQL renders a CREATE TABLE statement for t.
func (d *DialectConfig) CreateTableSQL(t *Table) string {
	defs := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		defs[i] = fmt.Sprintf("%s %s", d.QuoteIdent(col.Name), d.TypeName(col.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(t.Name), strings.Join(defs, ", "))
}

// InsertSQL renders a single-row parameterised INSERT statement for t.
func (d *DialectConfig) InsertSQL(t *Table) string {
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = d.QuoteIdent(col.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}
