package delivery

import (
	"context"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
)

const (
	// SessionName is the cookie session holding dashboard preferences.
	SessionName = "olistflow"
	yearKey     = "delivery_year"
	defaultYear = 2017
)

// Handlers provides HTTP handlers for the delivery feature.
type Handlers struct {
	source       *dashboard.Source
	sessionStore sessions.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *dashboard.Source, sessionStore sessions.Store) *Handlers {
	return &Handlers{source: source, sessionStore: sessionStore}
}

// DeliveryPage renders real against estimated delivery times for one year.
// A valid ?year= is remembered in the session for later visits.
func (h *Handlers) DeliveryPage(w http.ResponseWriter, r *http.Request) {
	year := h.selectedYear(w, r)
	common.Render(w, r, common.Page("Delivery", "/delivery", "", h.deliveryView(year)))
}

func (h *Handlers) selectedYear(w http.ResponseWriter, r *http.Request) int {
	session, _ := h.sessionStore.Get(r, SessionName)

	if v := r.URL.Query().Get("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil && slices.Contains(dashboard.Years, year) {
			session.Values[yearKey] = year
			_ = session.Save(r, w)
			return year
		}
	}
	if year, ok := session.Values[yearKey].(int); ok && slices.Contains(dashboard.Years, year) {
		return year
	}
	return defaultYear
}

func (h *Handlers) deliveryView(year int) templ.Component {
	times, err := h.source.DeliveryTimes()
	if err != nil {
		return common.DataError(err)
	}
	stats := dashboard.Delivery(times)
	yd, _ := stats.Year(year)

	var content []templ.Component
	content = append(content, yearPicker(year))

	if !yd.HasData {
		content = append(content, common.Alert("info", "No delivered orders in "+strconv.Itoa(year)+"."))
	} else {
		avgReal := common.Metric{Label: "Average real delivery", Value: common.Days(yd.AvgReal)}
		if prev, ok := stats.Year(year - 1); ok && prev.HasData {
			avgReal.Delta = common.Percent(yd.RealChangePct, true) + " vs " + strconv.Itoa(year-1)
		}
		est := common.Metric{Label: "Average estimated delivery", Value: "n/a"}
		if yd.HasEstimate {
			est.Value = common.Days(yd.AvgEstimated)
		}
		content = append(content, common.Metrics(
			avgReal,
			est,
			common.Metric{Label: "Estimate accuracy (all years)", Value: common.Percent(stats.Accuracy, false)},
		))
	}
	content = append(content, common.Section("Real vs estimated delivery time",
		common.Chart("delivery-times?year="+strconv.Itoa(year), 420)))

	diffs, err := h.source.DeliveryDifferences()
	if err != nil {
		return common.Group(append(content, common.DataError(err))...)
	}
	rows := make([][]string, len(diffs))
	for i, d := range diffs {
		rows[i] = []string{d.State, common.Count(d.Difference)}
	}
	content = append(content, common.Section("Days delivered ahead of estimate by state",
		common.Chart("delivery-difference", 420),
		common.Table([]string{"State", "Days"}, rows),
	))
	return common.Group(content...)
}

// yearPicker links to each year of the dataset.
func yearPicker(selected int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var err error
		write := func(s string) {
			if err == nil {
				_, err = io.WriteString(w, s)
			}
		}
		write(`<div class="years">`)
		for _, y := range dashboard.Years {
			ys := strconv.Itoa(y)
			if y == selected {
				write(`<a class="active" href="/delivery?year=` + ys + `">` + ys + `</a>`)
			} else {
				write(`<a href="/delivery?year=` + ys + `">` + ys + `</a>`)
			}
		}
		write(`</div>`)
		return err
	})
}
