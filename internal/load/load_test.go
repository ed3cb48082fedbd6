package load

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/testutil"
	"github.com/leapstack-labs/olistflow/pkg/adapters/sqlite"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

func newSQLiteLoader(t *testing.T) (*Loader, *sqlite.Adapter) {
	t.Helper()
	adp := sqlite.New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), core.AdapterConfig{Path: filepath.Join(t.TempDir(), "olist.db")}))
	t.Cleanup(func() { _ = adp.Close() })
	return New(adp, testutil.NewTestLogger(t)), adp
}

func ordersTable(ids ...string) *core.Table {
	t := core.NewTable("ignored", "order_id", "order_status", "order_purchase_timestamp", "order_approved_at")
	for _, id := range ids {
		t.Rows = append(t.Rows, []any{id, "delivered", "2017-10-02 10:56:33", "garbage"})
	}
	return t
}

func TestPrepare(t *testing.T) {
	src := ordersTable("a")
	src.Columns = append(src.Columns, core.Column{Name: "zip", Type: core.TypeText})
	src.Rows[0] = append(src.Rows[0], int64(1037))

	out := Prepare("olist_orders", src)

	assert.Equal(t, "olist_orders", out.Name)
	assert.Equal(t, core.TypeTimestamp, out.Columns[2].Type)
	assert.Equal(t, time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), out.Rows[0][2])
	assert.Nil(t, out.Rows[0][3], "unparseable timestamps become NULL")
	assert.Equal(t, "1037", out.Rows[0][4], "TEXT columns hold strings")

	// input untouched
	assert.Equal(t, "2017-10-02 10:56:33", src.Rows[0][2])
	assert.Equal(t, "ignored", src.Name)
}

func TestPrepare_UnknownTableKeepsValues(t *testing.T) {
	src := core.NewTable("x", "order_purchase_timestamp")
	src.Rows = [][]any{{"2017-10-02 10:56:33"}}

	out := Prepare("qry_custom", src)
	assert.Equal(t, "2017-10-02 10:56:33", out.Rows[0][0])
	assert.Equal(t, core.TypeText, out.Columns[0].Type)
}

func TestLoadOrder(t *testing.T) {
	tables := map[string]*core.Table{
		"qry_b":             {},
		"olist_orders":      {},
		"public_holidays":   {},
		"qry_a":             {},
		"olist_customers":   {},
		"olist_order_items": {},
	}

	assert.Equal(t, []string{
		"olist_customers", "olist_orders", "olist_order_items", "public_holidays", "qry_a", "qry_b",
	}, LoadOrder(tables))
}

func TestLoader_LoadAllFullReplace(t *testing.T) {
	ctx := context.Background()
	l, adp := newSQLiteLoader(t)

	_, err := l.LoadAll(ctx, map[string]*core.Table{"olist_orders": ordersTable("a", "b")})
	require.NoError(t, err)

	res, err := l.LoadAll(ctx, map[string]*core.Table{"olist_orders": ordersTable("c")})
	require.NoError(t, err)
	assert.Equal(t, []string{"olist_orders"}, res.Tables)
	assert.Equal(t, int64(1), res.Rows)

	got, err := adp.QueryTable(ctx, "check", `SELECT order_id FROM olist_orders`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"c"}}, got.Rows)
}

func TestLoader_DatetimeColumnsValidOrNull(t *testing.T) {
	ctx := context.Background()
	l, adp := newSQLiteLoader(t)

	_, err := l.LoadAll(ctx, map[string]*core.Table{"olist_orders": ordersTable("a")})
	require.NoError(t, err)

	got, err := adp.QueryTable(ctx, "check",
		`SELECT datetime(order_purchase_timestamp) AS p, order_approved_at AS a FROM olist_orders`)
	require.NoError(t, err)
	assert.Equal(t, "2017-10-02 10:56:33", got.Rows[0][0])
	assert.Nil(t, got.Rows[0][1])
}

func TestLoader_CreateIndexesIdempotentAndPartial(t *testing.T) {
	ctx := context.Background()
	l, adp := newSQLiteLoader(t)

	// olist_orders has no customer_id here, so that index is skipped.
	tables := map[string]*core.Table{
		"olist_orders":    ordersTable("a"),
		"olist_customers": core.NewTable("", "customer_id", "customer_state"),
	}
	_, err := l.LoadAll(ctx, tables)
	require.NoError(t, err)
	require.NoError(t, l.CreateIndexes(ctx))
	require.NoError(t, l.CreateIndexes(ctx))

	idx, err := adp.QueryTable(ctx, "idx",
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%' ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"idx_olist_customers_customer_id"},
		{"idx_olist_orders_order_id"},
		{"idx_olist_orders_purchase_ts"},
	}, idx.Rows)
}

func TestLoader_CreateIndexesWithAllColumns(t *testing.T) {
	ctx := context.Background()
	l, adp := newSQLiteLoader(t)

	orders := core.NewTable("", "order_id", "customer_id", "order_purchase_timestamp")
	orders.Rows = [][]any{{"a", "c1", "2017-10-02 10:56:33"}}
	_, err := l.LoadAll(ctx, map[string]*core.Table{"olist_orders": orders})
	require.NoError(t, err)

	idx, err := adp.QueryTable(ctx, "idx",
		`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'olist_orders' ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"idx_olist_orders_customer_id"},
		{"idx_olist_orders_order_id"},
		{"idx_olist_orders_purchase_ts"},
	}, idx.Rows)
}

func TestIndexes(t *testing.T) {
	assert.Len(t, Indexes, 12)
	assert.Equal(t,
		"CREATE INDEX IF NOT EXISTS idx_public_holidays_date ON public_holidays(date)",
		Indexes[len(Indexes)-1].SQL())
}

// failingAdapter fails WriteTable for one table.
type failingAdapter struct {
	core.Adapter
	failOn  string
	written []string
}

func (f *failingAdapter) WriteTable(_ context.Context, t *core.Table) error {
	if t.Name == f.failOn {
		return errors.New("disk full")
	}
	f.written = append(f.written, t.Name)
	return nil
}

func TestLoader_StorageErrorStopsLoad(t *testing.T) {
	fa := &failingAdapter{failOn: "olist_orders"}
	l := New(fa, nil)

	tables := map[string]*core.Table{
		"olist_customers": core.NewTable("", "customer_id"),
		"olist_orders":    ordersTable("a"),
		"olist_sellers":   core.NewTable("", "seller_id"),
	}

	_, err := l.LoadAll(context.Background(), tables)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading olist_orders")
	assert.Equal(t, []string{"olist_customers", "olist_sellers"}, fa.written)
}

func TestLoader_SkipsTablesWithoutColumns(t *testing.T) {
	ctx := context.Background()
	l, adp := newSQLiteLoader(t)

	res, err := l.LoadAll(ctx, map[string]*core.Table{
		"public_holidays": {Name: "public_holidays"},
		"olist_sellers":   core.NewTable("", "seller_id"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"olist_sellers"}, res.Tables)

	names, err := adp.ListTables(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"olist_sellers"}, names)
}
