package home

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	source   *dashboard.Source
	notifier *notifier.Notifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *dashboard.Source, notify *notifier.Notifier) *Handlers {
	return &Handlers{source: source, notifier: notify}
}

// HomePage renders the summary page with full content.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, common.Page("Summary", "/", "/updates", h.summaryView()))
}

// HomePageUpdates is the long-lived SSE endpoint for the summary page.
// Initial content is rendered by HomePage; this only pushes changes
// when export files are rewritten.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if !touchesSummary(ev) {
				continue
			}
			if err := sse.PatchElementTempl(common.Content(h.summaryView())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

var summaryFiles = []string{
	dashboard.FileRevenueByMonth,
	dashboard.FileTopCategories,
	dashboard.FileOrderStatus,
}

func touchesSummary(ev notifier.Event) bool {
	for _, f := range summaryFiles {
		if ev.Touches(f) {
			return true
		}
	}
	return false
}

// summaryView builds the headline figures, yearly growth and order
// status breakdown.
func (h *Handlers) summaryView() templ.Component {
	revenue, err := h.source.MonthlyRevenue()
	if err != nil {
		return common.DataError(err)
	}
	top, err := h.source.TopCategories()
	if err != nil {
		return common.DataError(err)
	}
	summary := dashboard.Summarize(revenue, top)

	metrics := make([]common.Metric, 0, len(summary.Years)+1)
	for _, y := range summary.Years {
		m := common.Metric{Label: "Revenue " + common.Count(int64(y.Year)), Value: common.Money(y.Revenue)}
		if y.HasBase {
			m.Delta = common.Percent(y.Growth, true) + " vs previous year"
		}
		metrics = append(metrics, m)
	}
	metrics = append(metrics, common.Metric{
		Label: "Orders in top 10 categories",
		Value: common.Count(summary.TopCategoryOrders),
	})

	sections := []templ.Component{
		common.Metrics(metrics...),
		common.Section("Monthly revenue", common.Chart("revenue-by-month", 420)),
	}

	statuses, err := h.source.OrderStatuses()
	if err != nil {
		sections = append(sections, common.DataError(err))
		return common.Group(sections...)
	}
	var total int64
	for _, s := range statuses {
		total += s.Amount
	}
	rows := make([][]string, len(statuses))
	for i, s := range statuses {
		rows[i] = []string{
			s.Status,
			common.Count(s.Amount),
			common.Percent(dashboard.Share(float64(s.Amount), float64(total)), false),
		}
	}
	sections = append(sections, common.Section("Order status",
		common.Chart("order-status", 360),
		common.Table([]string{"Status", "Orders", "Share"}, rows),
	))
	return common.Group(sections...)
}
