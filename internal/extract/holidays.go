package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/leapstack-labs/olistflow/internal/config"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// droppedHolidayColumns are removed from the API response.
var droppedHolidayColumns = []string{"types", "counties"}

// HolidayFetcher returns the public holidays of a year as a table.
type HolidayFetcher interface {
	Fetch(ctx context.Context, year int) (*core.Table, error)
}

// HolidayClient fetches public holidays from a Nager.Date compatible API.
type HolidayClient struct {
	BaseURL string
	Country string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewHolidayClient creates a client from cfg. If logger is nil, a discard
// logger is used.
func NewHolidayClient(cfg *config.HolidaysConfig, logger *slog.Logger) *HolidayClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &config.HolidaysConfig{}
	if cfg != nil {
		*c = *cfg
	}
	config.ApplyHolidaysDefaults(c)

	return &HolidayClient{
		BaseURL: strings.TrimRight(c.URL, "/"),
		Country: c.Country,
		HTTP:    &http.Client{Timeout: c.Timeout},
		Logger:  logger,
	}
}

// Fetch calls GET {BaseURL}/{year}/{Country}. A transport error or a non-2xx
// status wraps ErrHolidayFetch.
//
// The JSON array is flattened into one row per element; nested objects
// become dotted column names and arrays are kept as JSON text. Columns
// appear in order of first appearance. "types" and "counties" are dropped
// and "date" is converted to a timestamp (NULL when unparseable).
func (c *HolidayClient) Fetch(ctx context.Context, year int) (*core.Table, error) {
	url := fmt.Sprintf("%s/%d/%s", c.BaseURL, year, c.Country)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHolidayFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHolidayFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrHolidayFetch, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrHolidayFetch, err)
	}

	table, err := normalizeRecords(body, config.HolidaysTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHolidayFetch, err)
	}
	table.DropColumns(droppedHolidayColumns...)

	if idx := table.ColumnIndex("date"); idx >= 0 {
		for _, row := range table.Rows {
			row[idx] = core.CoerceTimestamp(row[idx])
		}
	}
	table.InferColumnTypes()

	c.Logger.Debug("fetched public holidays",
		slog.String("url", url),
		slog.Int("rows", table.Len()),
		slog.Duration("duration", time.Since(start)))
	return table, nil
}

// normalizeRecords turns a JSON array of objects into a table.
func normalizeRecords(data []byte, name string) (*core.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected a JSON array of records")
	}

	table := &core.Table{Name: name}
	var records []map[string]any

	for dec.More() {
		rec := make(map[string]any)
		var order []string
		if err := decodeObject(dec, "", rec, &order); err != nil {
			return nil, err
		}
		for _, key := range order {
			if table.ColumnIndex(key) < 0 {
				table.Columns = append(table.Columns, core.Column{
					Name:     key,
					Type:     core.TypeText,
					Nullable: true,
					Position: len(table.Columns) + 1,
				})
			}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	table.Rows = make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			row[j] = rec[col.Name]
		}
		table.Rows[i] = row
	}
	return table, nil
}

// decodeObject reads one JSON object, flattening nested objects into rec
// with keys joined by ".". order receives keys in first-seen order.
func decodeObject(dec *json.Decoder, prefix string, rec map[string]any, order *[]string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid JSON: unexpected %v", keyTok)
		}
		key := prefix + name

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("invalid JSON value for %s: %w", key, err)
		}
		trimmed := bytes.TrimSpace(raw)

		if len(trimmed) > 0 && trimmed[0] == '{' {
			sub := json.NewDecoder(bytes.NewReader(trimmed))
			sub.UseNumber()
			if err := decodeObject(sub, key+".", rec, order); err != nil {
				return err
			}
			continue
		}

		v, err := scalarValue(trimmed)
		if err != nil {
			return fmt.Errorf("invalid JSON value for %s: %w", key, err)
		}
		if _, seen := rec[key]; !seen {
			*order = append(*order, key)
		}
		rec[key] = v
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// scalarValue converts a JSON value to a table cell. Arrays stay as JSON text.
func scalarValue(raw []byte) (any, error) {
	if len(raw) > 0 && raw[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return buf.String(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, errors.New("number out of range")
		}
		return f, nil
	default:
		// string or bool
		return x, nil
	}
}
