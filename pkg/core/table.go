package core

import "time"

// ColumnType is the logical type of a table column.
type ColumnType string

// Column type constants.
const (
	TypeInteger   ColumnType = "INTEGER"
	TypeReal      ColumnType = "REAL"
	TypeBoolean   ColumnType = "BOOLEAN"
	TypeText      ColumnType = "TEXT"
	TypeTimestamp ColumnType = "TIMESTAMP"
)

// Column describes a column of an in-memory table or a warehouse table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	Position int
}

// Table is an in-memory tabular dataset.
//
// Each row has exactly len(Columns) cells. A cell is nil (NULL) or one of
// int64, float64, bool, string or time.Time.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// NewTable creates an empty table with the given column names, typed TEXT.
func NewTable(name string, columns ...string) *Table {
	t := &Table{Name: name, Columns: make([]Column, len(columns))}
	for i, c := range columns {
		t.Columns[i] = Column{Name: c, Type: TypeText, Nullable: true, Position: i + 1}
	}
	return t
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// DropColumns removes the named columns if present. Missing names are ignored.
func (t *Table) DropColumns(names ...string) {
	drop := make(map[int]bool)
	for _, n := range names {
		if i := t.ColumnIndex(n); i >= 0 {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}

	cols := make([]Column, 0, len(t.Columns)-len(drop))
	for i, c := range t.Columns {
		if !drop[i] {
			c.Position = len(cols) + 1
			cols = append(cols, c)
		}
	}
	for r, row := range t.Rows {
		kept := make([]any, 0, len(cols))
		for i, v := range row {
			if !drop[i] {
				kept = append(kept, v)
			}
		}
		t.Rows[r] = kept
	}
	t.Columns = cols
}

// Clone returns a copy of t with its own column and row slices.
// Cell values are shared; they are immutable.
func (t *Table) Clone() *Table {
	out := &Table{
		Name:    t.Name,
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]any(nil), row...)
	}
	return out
}

// TypeOf returns the column type that holds v. Nil reports ok=false.
func TypeOf(v any) (ColumnType, bool) {
	switch v.(type) {
	case nil:
		return "", false
	case int64, int, int32:
		return TypeInteger, true
	case float64, float32:
		return TypeReal, true
	case bool:
		return TypeBoolean, true
	case time.Time:
		return TypeTimestamp, true
	default:
		return TypeText, true
	}
}

// WidenType returns the narrowest type that can hold values of both a and b.
// An empty type means "no values seen yet".
func WidenType(a, b ColumnType) ColumnType {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	case (a == TypeInteger && b == TypeReal) || (a == TypeReal && b == TypeInteger):
		return TypeReal
	default:
		return TypeText
	}
}

// InferColumnTypes sets every column's type from the values it holds.
// Columns with only NULLs become TEXT.
func (t *Table) InferColumnTypes() {
	for i := range t.Columns {
		var typ ColumnType
		for _, row := range t.Rows {
			if vt, ok := TypeOf(row[i]); ok {
				typ = WidenType(typ, vt)
			}
		}
		if typ == "" {
			typ = TypeText
		}
		t.Columns[i].Type = typ
		t.Columns[i].Nullable = true
	}
}
