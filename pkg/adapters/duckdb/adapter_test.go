package duckdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/pkg/adapter"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

func TestAdapter_Lifecycle(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"in-memory", func(*testing.T) string { return ":memory:" }},
		{"empty path means in-memory", func(*testing.T) string { return "" }},
		{"file in new directory", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "warehouse", "olist.duckdb")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)
			assert.False(t, adp.IsConnected())

			path := tt.path(t)
			require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Type: "duckdb", Path: path}))
			assert.True(t, adp.IsConnected())
			assert.Equal(t, "duckdb", adp.DialectConfig().Name)
			require.NoError(t, adp.Exec(ctx, "SELECT 1"))

			if path != "" && path != ":memory:" {
				assert.FileExists(t, path)
			}
			assert.NoError(t, adp.Close())
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	assert.ErrorIs(t, adp.Exec(ctx, "SELECT 1"), adapter.ErrNotConnected)
	_, err := adp.QueryTable(ctx, "x", "SELECT 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.ErrorIs(t, adp.WriteTable(ctx, core.NewTable("t", "a")), adapter.ErrNotConnected)
	_, err = adp.ListTables(ctx, "")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.NoError(t, adp.Close())
}

func TestAdapter_BooleansAndAggregates(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	got, err := adp.QueryTable(ctx, "orders_per_day_and_holidays",
		`SELECT COUNT(*) AS order_count, TRUE AS holiday, SUM(x::DOUBLE) AS total FROM (VALUES (1.5), (2.5)) v(x)`)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []any{int64(2), true, 4.0}, got.Rows[0])
	assert.Equal(t, core.TypeInteger, got.Columns[0].Type)
	assert.Equal(t, core.TypeBoolean, got.Columns[1].Type)
	assert.Equal(t, core.TypeReal, got.Columns[2].Type)
}

func TestAdapter_WriteAndQueryTable(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: filepath.Join(t.TempDir(), "olist.duckdb")}))
	defer func() { _ = adp.Close() }()

	tbl := &core.Table{
		Name: "olist_order_items",
		Columns: []core.Column{
			{Name: "order_id", Type: core.TypeText},
			{Name: "price", Type: core.TypeReal},
			{Name: "order_item_id", Type: core.TypeInteger},
			{Name: "shipping_limit_date", Type: core.TypeTimestamp},
		},
		Rows: [][]any{
			{"a", 58.9, int64(1), time.Date(2017, 9, 19, 9, 45, 35, 0, time.UTC)},
			{"b", 239.9, int64(1), nil},
		},
	}
	require.NoError(t, adp.WriteTable(ctx, tbl))
	// Second write replaces the first.
	require.NoError(t, adp.WriteTable(ctx, tbl))

	got, err := adp.QueryTable(ctx, "totals", `SELECT order_id, price FROM olist_order_items ORDER BY order_id`)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", 58.9}, {"b", 239.9}}, got.Rows)

	names, err := adp.ListTables(ctx, "olist_")
	require.NoError(t, err)
	assert.Equal(t, []string{"olist_order_items"}, names)

	meta, err := adp.GetTableMetadata(ctx, "olist_order_items")
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.RowCount)
	assert.Len(t, meta.Columns, 4)
}

func TestConnect_WithOptions(t *testing.T) {
	ctx := context.Background()

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{
		Path:    ":memory:",
		Options: map[string]string{"threads": "2", "memory_limit": "512MB"},
	}))
	defer func() { _ = adp.Close() }()

	var threads int64
	require.NoError(t, adp.DB.GetContext(ctx, &threads, "SELECT current_setting('threads')"))
	assert.Equal(t, int64(2), threads)

	bad := New(nil)
	err := bad.Connect(ctx, core.AdapterConfig{Options: map[string]string{"threads": "lots"}})
	assert.Error(t, err)
}
