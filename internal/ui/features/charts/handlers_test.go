package charts

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/olistflow/internal/ui/features"
)

func serveChart(t *testing.T, h *Handlers, name, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/charts/" + name
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, target, nil), "name", name)
	rec := httptest.NewRecorder()
	h.Chart(rec, req)
	return rec
}

func TestChart(t *testing.T) {
	fixture := features.SetupTestFixture(t, features.SampleExports)
	h := NewHandlers(fixture.Source)

	tests := []struct {
		name     string
		query    string
		wantBody []string
	}{
		{name: "revenue-by-month", wantBody: []string{"Revenue by month", "2017", "Jan"}},
		{name: "top-categories", wantBody: []string{"Top 10 categories by revenue", "Health Beauty"}},
		{name: "least-categories", wantBody: []string{"Security And Services"}},
		{name: "revenue-per-state", wantBody: []string{"Revenue per state", "SP"}},
		{name: "delivery-times", query: "year=2018", wantBody: []string{"average days, 2018", "Estimated"}},
		{name: "delivery-times", wantBody: []string{"average days, 2017"}},
		{name: "delivery-difference", wantBody: []string{"AL"}},
		{name: "order-status", wantBody: []string{"delivered", "canceled"}},
		{name: "orders-per-day", wantBody: []string{"2017-01-01", "Holiday"}},
		{name: "freight-weight", wantBody: []string{"weight (g)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name+tt.query, func(t *testing.T) {
			rec := serveChart(t, h, tt.name, tt.query)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			body := rec.Body.String()
			assert.Contains(t, body, "echarts")
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestChart_Errors(t *testing.T) {
	t.Run("unknown chart", func(t *testing.T) {
		fixture := features.SetupTestFixture(t, features.SampleExports)
		rec := serveChart(t, NewHandlers(fixture.Source), "pie-in-the-sky", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown chart")
	})

	t.Run("no exported data", func(t *testing.T) {
		fixture := features.SetupTestFixture(t, nil)
		rec := serveChart(t, NewHandlers(fixture.Source), "revenue-by-month", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "No exported results yet")
	})

	t.Run("malformed file", func(t *testing.T) {
		fixture := features.SetupTestFixture(t, map[string]string{"global_ammount_order_status": "{not json"})
		rec := serveChart(t, NewHandlers(fixture.Source), "order-status", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Len(t, names, 9)
	assert.IsNonDecreasing(t, names)
}
