package adapter

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

var testDialect = &core.DialectConfig{
	Name:  "sqlite",
	Quote: `"`,
	Types: map[core.ColumnType]string{
		core.TypeInteger:   "INTEGER",
		core.TypeReal:      "REAL",
		core.TypeText:      "TEXT",
		core.TypeTimestamp: "TIMESTAMP",
	},
	TimestampLayout: "2006-01-02 15:04:05",
	ListTablesSQL:   "SELECT name FROM sqlite_master WHERE type = 'table'",
}

func newMockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: sqlx.NewDb(db, "sqlmock"), Dialect: testDialect}, mock
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = sqlx.NewDb(db, "sqlmock")
			}

			assert.NoError(t, base.Close())
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		errMsg    string
	}{
		{
			name:    "exec without connection",
			setupDB: false,
			sql:     "SELECT 1",
			errMsg:  "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			sql: "CREATE INDEX IF NOT EXISTS idx ON olist_orders(order_id)",
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:    "INVALID SQL",
			errMsg: "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				var mock sqlmock.Sqlmock
				base, mock = newMockBase(t)
				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
			}

			err := base.Exec(ctx, tt.sql)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_QueryTable(t *testing.T) {
	t.Run("without connection", func(t *testing.T) {
		base := &BaseSQLAdapter{}
		_, err := base.QueryTable(context.Background(), "x", "SELECT 1")
		require.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("reads rows and infers types", func(t *testing.T) {
		base, mock := newMockBase(t)
		rows := sqlmock.NewRows([]string{"customer_state", "Revenue", "note"}).
			AddRow("SP", 5998226.96, nil).
			AddRow("RJ", int64(2144379), nil)
		mock.ExpectQuery("SELECT customer_state").WillReturnRows(rows)

		table, err := base.QueryTable(context.Background(), "revenue_per_state", "SELECT customer_state, Revenue, note FROM x")
		require.NoError(t, err)

		assert.Equal(t, "revenue_per_state", table.Name)
		assert.Equal(t, []string{"customer_state", "Revenue", "note"}, table.ColumnNames())
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "SP", table.Rows[0][0])
		assert.Equal(t, core.TypeText, table.Columns[0].Type)
		assert.Equal(t, core.TypeReal, table.Columns[1].Type)
		assert.Equal(t, core.TypeText, table.Columns[2].Type)
		assert.Nil(t, table.Rows[1][2])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

		_, err := base.QueryTable(context.Background(), "x", "SELECT 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute query")
	})
}

func TestBaseSQLAdapter_WriteTable(t *testing.T) {
	ts := time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC)
	table := &core.Table{
		Name: "olist_orders",
		Columns: []core.Column{
			{Name: "order_id", Type: core.TypeText},
			{Name: "order_purchase_timestamp", Type: core.TypeTimestamp},
		},
		Rows: [][]any{
			{"e481f51c", ts},
			{"53cdb2fc", nil},
		},
	}

	t.Run("drop create insert commit", func(t *testing.T) {
		base, mock := newMockBase(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "olist_orders"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE "olist_orders" ("order_id" TEXT, "order_purchase_timestamp" TIMESTAMP)`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO "olist_orders"`))
		prep.ExpectExec().WithArgs("e481f51c", "2017-10-02 10:56:33").WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WithArgs("53cdb2fc", nil).WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		require.NoError(t, base.WriteTable(context.Background(), table))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create failure rolls back", func(t *testing.T) {
		base, mock := newMockBase(t)

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := base.WriteTable(context.Background(), table)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create table olist_orders")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ragged row", func(t *testing.T) {
		base, mock := newMockBase(t)
		bad := &core.Table{
			Name:    "t",
			Columns: []core.Column{{Name: "a", Type: core.TypeText}},
			Rows:    [][]any{{"x", "y"}},
		}

		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectPrepare("INSERT INTO")
		mock.ExpectRollback()

		err := base.WriteTable(context.Background(), bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected 1 values, got 2")
	})

	t.Run("no columns", func(t *testing.T) {
		base, _ := newMockBase(t)
		err := base.WriteTable(context.Background(), &core.Table{Name: "empty"})
		require.Error(t, err)
	})
}

func TestBaseSQLAdapter_ListTables(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).
			AddRow("qry_revenue_per_state").
			AddRow("olist_orders").
			AddRow("qry_delivery_date_difference"))

	names, err := base.ListTables(context.Background(), "qry_")
	require.NoError(t, err)
	assert.Equal(t, []string{"qry_delivery_date_difference", "qry_revenue_per_state"}, names)
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	assert.False(t, (&BaseSQLAdapter{}).IsConnected())

	base, _ := newMockBase(t)
	assert.True(t, base.IsConnected())
}

func TestTypeFromDatabaseName(t *testing.T) {
	tests := []struct {
		in   string
		want core.ColumnType
	}{
		{"BIGINT", core.TypeInteger},
		{"INTEGER", core.TypeInteger},
		{"DOUBLE", core.TypeReal},
		{"DECIMAL(18,3)", core.TypeReal},
		{"BOOLEAN", core.TypeBoolean},
		{"TIMESTAMP", core.TypeTimestamp},
		{"VARCHAR", core.TypeText},
		{"", core.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeFromDatabaseName(tt.in))
		})
	}
}
