package charts

import (
	"io"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
)

type renderer interface {
	Render(w io.Writer) error
}

// builder loads the data of one chart. query carries chart options such
// as the selected year.
type builder func(src *dashboard.Source, query url.Values) (renderer, error)

var builders = map[string]builder{
	"revenue-by-month":    revenueByMonth,
	"top-categories":      categoryPie("Top 10 categories by revenue", (*dashboard.Source).TopCategories),
	"least-categories":    categoryPie("Categories with the least revenue", (*dashboard.Source).LeastCategories),
	"revenue-per-state":   revenuePerState,
	"delivery-times":      deliveryTimes,
	"delivery-difference": deliveryDifference,
	"order-status":        orderStatus,
	"orders-per-day":      ordersPerDay,
	"freight-weight":      freightWeight,
}

// Names returns the available chart names, sorted.
func Names() []string {
	names := make([]string, 0, len(builders))
	for n := range builders {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func globals(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    "380px",
		}),
	}
}

func revenueByMonth(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.MonthlyRevenue()
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globals("Revenue by month", "delivered orders, per purchase year")...)

	months := make([]string, len(rows))
	for i, r := range rows {
		months[i] = r.Month
	}
	line.SetXAxis(months)
	for _, year := range dashboard.Years {
		data := make([]opts.LineData, len(rows))
		for i, r := range rows {
			data[i] = opts.LineData{Value: r.Value(year)}
		}
		line.AddSeries(strconv.Itoa(year), data)
	}
	return line, nil
}

func categoryPie(title string, load func(*dashboard.Source) ([]dashboard.CategoryRevenue, error)) builder {
	return func(src *dashboard.Source, _ url.Values) (renderer, error) {
		rows, err := load(src)
		if err != nil {
			return nil, err
		}

		pie := charts.NewPie()
		pie.SetGlobalOptions(globals(title, "share of revenue")...)
		data := make([]opts.PieData, len(rows))
		for i, r := range rows {
			data[i] = opts.PieData{Name: common.CategoryLabel(r.Category), Value: r.Revenue}
		}
		pie.AddSeries("Revenue", data)
		return pie, nil
	}
}

func revenuePerState(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.StateRevenue()
	if err != nil {
		return nil, err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globals("Revenue per state", "customer state")...)
	states := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, r := range rows {
		states[i] = r.State
		data[i] = opts.BarData{Value: r.Revenue}
	}
	bar.SetXAxis(states).AddSeries("Revenue", data)
	return bar, nil
}

// deliveryTimes plots one year, chosen with ?year= (2017 by default).
func deliveryTimes(src *dashboard.Source, query url.Values) (renderer, error) {
	rows, err := src.DeliveryTimes()
	if err != nil {
		return nil, err
	}
	year := 2017
	if y, err := strconv.Atoi(query.Get("year")); err == nil && slices.Contains(dashboard.Years, y) {
		year = y
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globals("Real vs estimated delivery time", "average days, "+strconv.Itoa(year))...)

	months := make([]string, len(rows))
	realData := make([]opts.LineData, len(rows))
	estData := make([]opts.LineData, len(rows))
	for i, r := range rows {
		months[i] = r.Month
		realData[i] = opts.LineData{Value: optional(r.Real(year))}
		estData[i] = opts.LineData{Value: optional(r.Estimated(year))}
	}
	line.SetXAxis(months).
		AddSeries("Real", realData).
		AddSeries("Estimated", estData)
	return line, nil
}

func deliveryDifference(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.DeliveryDifferences()
	if err != nil {
		return nil, err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globals("Delivered ahead of estimate", "days, by state")...)
	states := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, r := range rows {
		states[i] = r.State
		data[i] = opts.BarData{Value: r.Difference}
	}
	bar.SetXAxis(states).AddSeries("Days", data)
	return bar, nil
}

func orderStatus(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.OrderStatuses()
	if err != nil {
		return nil, err
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(globals("Orders by status", "")...)
	data := make([]opts.PieData, len(rows))
	for i, r := range rows {
		data[i] = opts.PieData{Name: r.Status, Value: r.Amount}
	}
	pie.AddSeries("Orders", data)
	return pie, nil
}

// ordersPerDay plots daily orders with public holidays as a second series.
func ordersPerDay(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.OrdersPerDay()
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(globals("Orders per day", "2017, public holidays highlighted")...)

	days := make([]string, len(rows))
	orders := make([]opts.LineData, len(rows))
	holidays := make([]opts.LineData, len(rows))
	for i, r := range rows {
		days[i] = r.Date().Format(time.DateOnly)
		orders[i] = opts.LineData{Value: r.OrderCount}
		if r.Holiday {
			holidays[i] = opts.LineData{Value: r.OrderCount}
		}
	}
	line.SetXAxis(days).
		AddSeries("Orders", orders).
		AddSeries("Holiday", holidays)
	return line, nil
}

func freightWeight(src *dashboard.Source, _ url.Values) (renderer, error) {
	rows, err := src.FreightWeights()
	if err != nil {
		return nil, err
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globals("Freight value vs product weight", "delivered orders"),
		charts.WithXAxisOpts(opts.XAxis{Name: "weight (g)", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "freight", Type: "value"}),
	)...)
	data := make([]opts.ScatterData, len(rows))
	for i, r := range rows {
		data[i] = opts.ScatterData{Value: []any{r.WeightG, r.FreightValue}}
	}
	scatter.AddSeries("Orders", data)
	return scatter, nil
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
