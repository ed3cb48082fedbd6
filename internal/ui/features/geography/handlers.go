package geography

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the geography feature.
type Handlers struct {
	source *dashboard.Source
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *dashboard.Source) *Handlers {
	return &Handlers{source: source}
}

// GeographyPage renders revenue concentration across states.
func (h *Handlers) GeographyPage(w http.ResponseWriter, r *http.Request) {
	common.Render(w, r, common.Page("Geography", "/geography", "", h.geographyView()))
}

func (h *Handlers) geographyView() templ.Component {
	states, err := h.source.StateRevenue()
	if err != nil {
		return common.DataError(err)
	}
	c := dashboard.Geography(states)

	notice := common.Alert("success", "Revenue is spread across states: the top 3 hold "+
		common.Percent(c.Top3Share, false)+".")
	if c.High {
		notice = common.Alert("warning", "High concentration: the top 3 states hold "+
			common.Percent(c.Top3Share, false)+" of revenue.")
	}

	rows := make([][]string, len(c.Top5))
	for i, s := range c.Top5 {
		rows[i] = []string{s.State, common.Money(s.Revenue), common.Percent(s.Share, false)}
	}

	return common.Group(
		common.Metrics(
			common.Metric{Label: "Total revenue", Value: common.Money(c.Total)},
			common.Metric{Label: "Top 3 states", Value: common.Percent(c.Top3Share, false)},
			common.Metric{Label: "Top 5 states", Value: common.Percent(c.Top5Share, false)},
		),
		notice,
		common.Section("Revenue per state", common.Chart("revenue-per-state", 480)),
		common.Section("Top 5 states", common.Table([]string{"State", "Revenue", "Share"}, rows)),
	)
}
