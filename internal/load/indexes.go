package load

import (
	"context"
	"fmt"
	"log/slog"
)

// Index is one secondary index on a warehouse table.
type Index struct {
	Name   string
	Table  string
	Column string
}

// SQL renders the idempotent CREATE INDEX statement.
func (i Index) SQL() string {
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", i.Name, i.Table, i.Column)
}

// Indexes speed up the joins and filters of the query catalog.
var Indexes = []Index{
	{"idx_olist_orders_order_id", "olist_orders", "order_id"},
	{"idx_olist_orders_customer_id", "olist_orders", "customer_id"},
	{"idx_olist_orders_purchase_ts", "olist_orders", "order_purchase_timestamp"},

	{"idx_olist_order_items_order_id", "olist_order_items", "order_id"},
	{"idx_olist_order_items_product_id", "olist_order_items", "product_id"},
	{"idx_olist_order_items_seller_id", "olist_order_items", "seller_id"},

	{"idx_olist_order_payments_order_id", "olist_order_payments", "order_id"},
	{"idx_olist_order_reviews_order_id", "olist_order_reviews", "order_id"},

	{"idx_olist_customers_customer_id", "olist_customers", "customer_id"},
	{"idx_olist_products_product_id", "olist_products", "product_id"},
	{"idx_olist_sellers_seller_id", "olist_sellers", "seller_id"},

	{"idx_public_holidays_date", "public_holidays", "date"},
}

// CreateIndexes creates every index whose table and column exist. Anything
// missing is skipped so partial table sets still load.
func (l *Loader) CreateIndexes(ctx context.Context) error {
	names, err := l.Adapter.ListTables(ctx, "")
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	columns := make(map[string]map[string]bool)
	created := 0
	for _, idx := range Indexes {
		if !present[idx.Table] {
			l.Logger.Debug("skipping index, table not loaded",
				slog.String("index", idx.Name),
				slog.String("table", idx.Table))
			continue
		}

		cols, ok := columns[idx.Table]
		if !ok {
			meta, err := l.Adapter.GetTableMetadata(ctx, idx.Table)
			if err != nil {
				return fmt.Errorf("creating index %s: %w", idx.Name, err)
			}
			cols = make(map[string]bool, len(meta.Columns))
			for _, c := range meta.Columns {
				cols[c.Name] = true
			}
			columns[idx.Table] = cols
		}
		if !cols[idx.Column] {
			l.Logger.Debug("skipping index, column not loaded",
				slog.String("index", idx.Name),
				slog.String("column", idx.Column))
			continue
		}

		if err := l.Adapter.Exec(ctx, idx.SQL()); err != nil {
			return fmt.Errorf("creating index %s: %w", idx.Name, err)
		}
		created++
	}

	l.Logger.Debug("indexes ready", slog.Int("count", created))
	return nil
}
