package revenue

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the revenue feature.
type Handlers struct {
	source *dashboard.Source
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *dashboard.Source) *Handlers {
	return &Handlers{source: source}
}

// RevenuePage renders the best and worst selling categories.
func (h *Handlers) RevenuePage(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, common.Page("Revenue", "/revenue", "", h.revenueView()))
}

func (h *Handlers) revenueView() templ.Component {
	top, err := h.source.TopCategories()
	if err != nil {
		return common.DataError(err)
	}
	least, err := h.source.LeastCategories()
	if err != nil {
		return common.DataError(err)
	}

	return common.Group(
		common.Section("Top 10 categories by revenue",
			common.Chart("top-categories", 420),
			categoryTable(top),
		),
		common.Section("10 categories with the least revenue",
			common.Chart("least-categories", 420),
			categoryTable(least),
		),
	)
}

// categoryTable lists categories with their share of the listed revenue.
func categoryTable(cats []dashboard.CategoryRevenue) templ.Component {
	var total float64
	for _, c := range cats {
		total += c.Revenue
	}
	rows := make([][]string, len(cats))
	for i, c := range cats {
		rows[i] = []string{
			common.CategoryLabel(c.Category),
			common.Count(c.NumOrder),
			common.Money(c.Revenue),
			common.Percent(dashboard.Share(c.Revenue, total), false),
		}
	}
	return common.Table([]string{"Category", "Orders", "Revenue", "Share"}, rows)
}
