// Package export writes the query-result tables of the warehouse to JSON
// files that the dashboard reads.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// FileResult describes the export of one result table.
type FileResult struct {
	Table string
	Path  string
	Rows  int
	Err   error
}

// Report summarizes an export.
type Report struct {
	Dir   string
	Files []FileResult
}

// Written returns the number of files written successfully.
func (r *Report) Written() int {
	n := 0
	for _, f := range r.Files {
		if f.Err == nil {
			n++
		}
	}
	return n
}

// Exporter dumps every table carrying Prefix into Dir.
type Exporter struct {
	Adapter core.Adapter
	Dir     string
	Prefix  string
	Logger  *slog.Logger
}

// New creates an Exporter for the result tables of adp.
func New(adp core.Adapter, dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{Adapter: adp, Dir: dir, Prefix: config.ResultPrefix, Logger: logger}
}

// Extension is the file extension of exported results.
const Extension = ".json"

// FileName returns the export file name of a result table.
func FileName(table, prefix string) string {
	return strings.TrimPrefix(table, prefix) + Extension
}

// Export writes one JSON file per result table. Failing to create the
// directory or list the tables is fatal. A failure on one file does not stop
// the others; the returned error joins every per-file error.
func (e *Exporter) Export(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(e.Dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	tables, err := e.Adapter.ListTables(ctx, e.Prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list result tables: %w", err)
	}

	report := &Report{Dir: e.Dir}
	var errs []error
	for _, name := range tables {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := e.exportTable(ctx, name)
		if res.Err != nil {
			e.Logger.Error("export failed", slog.String("table", name), slog.String("error", res.Err.Error()))
			errs = append(errs, res.Err)
		} else {
			e.Logger.Info("exported", slog.String("table", name), slog.String("path", res.Path), slog.Int("rows", res.Rows))
		}
		report.Files = append(report.Files, res)
	}
	return report, errors.Join(errs...)
}

func (e *Exporter) exportTable(ctx context.Context, name string) FileResult {
	res := FileResult{Table: name, Path: filepath.Join(e.Dir, FileName(name, e.Prefix))}

	t, err := e.Adapter.QueryTable(ctx, name, "SELECT * FROM "+e.Adapter.DialectConfig().QuoteIdent(name))
	if err != nil {
		res.Err = fmt.Errorf("export %s: %w", name, err)
		return res
	}
	if meta, err := e.Adapter.GetTableMetadata(ctx, name); err == nil {
		applyDeclaredTypes(t, meta)
	}

	data, err := MarshalRecords(t)
	if err != nil {
		res.Err = fmt.Errorf("export %s: %w", name, err)
		return res
	}
	if err := os.WriteFile(res.Path, data, 0600); err != nil {
		res.Err = fmt.Errorf("export %s: %w", name, err)
		return res
	}
	res.Rows = t.Len()
	return res
}

// applyDeclaredTypes restores timestamp and boolean values that the store
// hands back as text or integers.
func applyDeclaredTypes(t *core.Table, meta *core.TableMetadata) {
	for _, col := range meta.Columns {
		idx := t.ColumnIndex(col.Name)
		if idx < 0 {
			continue
		}
		switch col.Type {
		case core.TypeTimestamp:
			t.Columns[idx].Type = core.TypeTimestamp
			for _, row := range t.Rows {
				if _, ok := row[idx].(time.Time); !ok {
					row[idx] = core.CoerceTimestamp(row[idx])
				}
			}
		case core.TypeBoolean:
			t.Columns[idx].Type = core.TypeBoolean
			for _, row := range t.Rows {
				switch v := row[idx].(type) {
				case int64:
					row[idx] = v != 0
				case float64:
					row[idx] = v != 0
				}
			}
		}
	}
}

// MarshalRecords encodes t as a JSON array with one object per row. Keys
// keep column order, timestamps become epoch milliseconds and non-finite
// floats become null. HTML characters are not escaped.
func MarshalRecords(t *core.Table) ([]byte, error) {
	keys := make([][]byte, len(t.Columns))
	for i, c := range t.Columns {
		k, err := encode(c.Name)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for r, row := range t.Rows {
		if r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')
			val, err := encode(jsonValue(v))
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", r, t.Columns[i].Name, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UnixMilli()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	}
	return v
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
