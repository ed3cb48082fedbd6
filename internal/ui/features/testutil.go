// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/state"
	"github.com/leapstack-labs/olistflow/internal/testutil"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// SampleExports is a small set of export files. Totals per year are
// 50 (2016), 200 (2017) and 150 (2018); the top 3 states hold 80% of
// state revenue.
var SampleExports = map[string]string{
	dashboard.FileRevenueByMonth: `[
		{"month_no":"01","month":"Jan","Year2016":0,"Year2017":100,"Year2018":150},
		{"month_no":"02","month":"Feb","Year2016":50,"Year2017":100,"Year2018":0}]`,
	dashboard.FileTopCategories: `[
		{"Category":"health_beauty","Num_order":3,"Revenue":120.5},
		{"Category":"watches_gifts","Num_order":2,"Revenue":80}]`,
	dashboard.FileLeastCategories: `[
		{"Category":"security_and_services","Num_order":1,"Revenue":10}]`,
	dashboard.FileRevenuePerState: `[
		{"customer_state":"SP","Revenue":500},
		{"customer_state":"RJ","Revenue":200},
		{"customer_state":"MG","Revenue":100},
		{"customer_state":"RS","Revenue":100},
		{"customer_state":"PR","Revenue":50},
		{"customer_state":"BA","Revenue":50}]`,
	dashboard.FileDeliveryTimes: `[
		{"month_no":"01","month":"Jan",
		 "Year2016_real_time":null,"Year2017_real_time":10,"Year2018_real_time":8,
		 "Year2016_estimated_time":null,"Year2017_estimated_time":20,"Year2018_estimated_time":16}]`,
	dashboard.FileDeliveryDifference: `[
		{"State":"AL","Delivery_Difference":8},
		{"State":"SP","Delivery_Difference":11}]`,
	dashboard.FileOrderStatus: `[
		{"order_status":"delivered","Ammount":3},
		{"order_status":"canceled","Ammount":1}]`,
	dashboard.FileOrdersPerDay: `[
		{"order_count":3,"date":1483228800000,"holiday":true},
		{"order_count":5,"date":1483315200000,"holiday":false}]`,
	dashboard.FileFreightWeight: `[
		{"order_id":"o1","freight_value":10.5,"product_weight_g":225}]`,
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	ExportDir    string
	Source       *dashboard.Source
	Store        core.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates an export directory holding files, a dashboard
// source over it and an initialized run-history store.
func SetupTestFixture(t *testing.T, files map[string]string) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	tmpDir := t.TempDir()
	exportDir := filepath.Join(tmpDir, "query_results")

	for name, content := range files {
		testutil.WriteFile(t, exportDir, name+".json", content)
	}

	store := state.NewSQLiteStore(logger)
	require.NoError(t, store.Open(filepath.Join(tmpDir, "state.db")))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })

	return &TestFixture{
		ExportDir:    exportDir,
		Source:       dashboard.NewSource(exportDir, logger),
		Store:        store,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
