package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

// ReadCSVFile reads a CSV file with a header row into a table called name.
func ReadCSVFile(path, name string) (*core.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured dataset directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadCSV(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses CSV data with a header row into a table called name.
//
// Empty cells become NULL. A column whose non-empty values all parse as
// integers is INTEGER, else if they all parse as numbers it is REAL,
// otherwise TEXT. Rows with a different field count than the header are
// rejected.
func ReadCSV(r io.Reader, name string) (*core.Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrMalformedCSV)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
		}
		records = append(records, rec)
	}

	t := core.NewTable(name, header...)
	t.Rows = make([][]any, len(records))
	for i := range records {
		t.Rows[i] = make([]any, len(header))
	}

	for col := range header {
		typ := inferColumn(records, col)
		t.Columns[col].Type = typ
		for i, rec := range records {
			t.Rows[i][col] = convertCell(rec[col], typ)
		}
	}
	return t, nil
}

func inferColumn(records [][]string, col int) core.ColumnType {
	var typ core.ColumnType
	for _, rec := range records {
		s := rec[col]
		if s == "" {
			continue
		}
		switch {
		case isInt(s):
			typ = core.WidenType(typ, core.TypeInteger)
		case isFloat(s):
			typ = core.WidenType(typ, core.TypeReal)
		default:
			return core.TypeText
		}
	}
	if typ == "" {
		return core.TypeText
	}
	return typ
}

func convertCell(s string, typ core.ColumnType) any {
	if s == "" {
		return nil
	}
	switch typ {
	case core.TypeInteger:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case core.TypeReal:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	default:
		return s
	}
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
