// Package load writes in-memory tables into the warehouse as full-replace
// loads and maintains the lookup indexes.
package load

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

// DatetimeColumns lists, per known table, the columns stored as timestamps.
var DatetimeColumns = map[string][]string{
	"olist_orders": {
		"order_purchase_timestamp",
		"order_approved_at",
		"order_delivered_carrier_date",
		"order_delivered_customer_date",
		"order_estimated_delivery_date",
	},
	"olist_order_items":   {"shipping_limit_date"},
	"olist_order_reviews": {"review_creation_date", "review_answer_timestamp"},
	"public_holidays":     {"date"},
}

// PreferredOrder is the load order for known tables: dimensions, then facts,
// then holidays. Other tables follow in name order.
var PreferredOrder = []string{
	"product_category_name_translation",
	"olist_customers",
	"olist_geolocation",
	"olist_products",
	"olist_sellers",
	"olist_orders",
	"olist_order_items",
	"olist_order_payments",
	"olist_order_reviews",
	"public_holidays",
}

// Result summarises a LoadAll call.
type Result struct {
	Tables []string
	Rows   int64
}

// Loader writes tables through a warehouse adapter.
type Loader struct {
	Adapter core.Adapter
	Logger  *slog.Logger
}

// New creates a Loader. If logger is nil, a discard logger is used.
func New(adp core.Adapter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{Adapter: adp, Logger: logger}
}

// LoadTable coerces t for the table name and replaces that table in the
// warehouse. The input table is not modified.
func (l *Loader) LoadTable(ctx context.Context, name string, t *core.Table) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("table %s: no data", name)
	}
	start := time.Now()

	out := Prepare(name, t)
	if err := l.Adapter.WriteTable(ctx, out); err != nil {
		return 0, fmt.Errorf("loading %s: %w", name, err)
	}

	l.Logger.Info("loaded table",
		slog.String("table", name),
		slog.Int("rows", out.Len()),
		slog.Duration("duration", time.Since(start)))
	return out.Len(), nil
}

// LoadAll loads every table in PreferredOrder first, then the remaining
// tables sorted by name, and finally creates the indexes. The first storage
// error stops the load; tables already written stay in place.
func (l *Loader) LoadAll(ctx context.Context, tables map[string]*core.Table) (*Result, error) {
	res := &Result{}

	for _, name := range LoadOrder(tables) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		t := tables[name]
		if t == nil || len(t.Columns) == 0 {
			l.Logger.Warn("skipping table without columns", slog.String("table", name))
			continue
		}
		n, err := l.LoadTable(ctx, name, t)
		if err != nil {
			return res, err
		}
		res.Tables = append(res.Tables, name)
		res.Rows += int64(n)
	}

	if err := l.CreateIndexes(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// LoadOrder returns the names of tables in load order.
func LoadOrder(tables map[string]*core.Table) []string {
	order := make([]string, 0, len(tables))
	known := make(map[string]bool, len(PreferredOrder))
	for _, name := range PreferredOrder {
		known[name] = true
		if _, ok := tables[name]; ok {
			order = append(order, name)
		}
	}

	var rest []string
	for name := range tables {
		if !known[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// Prepare returns a copy of t named name with allow-listed datetime columns
// converted to timestamps (NULL when unparseable) and every TEXT column
// holding only strings or NULL.
func Prepare(name string, t *core.Table) *core.Table {
	out := t.Clone()
	out.Name = name

	datetime := make(map[string]bool)
	for _, c := range DatetimeColumns[name] {
		datetime[c] = true
	}

	for i := range out.Columns {
		col := &out.Columns[i]
		switch {
		case datetime[col.Name]:
			col.Type = core.TypeTimestamp
			col.Nullable = true
			for _, row := range out.Rows {
				row[i] = core.CoerceTimestamp(row[i])
			}
		case col.Type == core.TypeText || col.Type == "":
			col.Type = core.TypeText
			col.Nullable = true
			for _, row := range out.Rows {
				row[i] = textValue(row[i])
			}
		}
	}
	return out
}

func textValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}
