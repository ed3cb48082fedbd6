package dashboard

import "sort"

// ConcentrationWarning is the top-3 share, in percent, above which revenue
// is considered geographically concentrated.
const ConcentrationWarning = 70.0

// GrowthRate returns the change from prev to cur in percent, or 0 when
// prev is not positive.
func GrowthRate(prev, cur float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// Share returns part as a percentage of total, or 0 when total is not
// positive.
func Share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// YearTotal is the revenue of one year and its growth over the previous one.
type YearTotal struct {
	Year    int
	Revenue float64
	Growth  float64
	// HasBase is false for the first year or when the previous year had no revenue.
	HasBase bool
}

// Summary holds the headline figures.
type Summary struct {
	Years []YearTotal
	// TopCategoryOrders is the number of orders in the top-10 categories.
	TopCategoryOrders int64
}

// Total returns the revenue of year.
func (s Summary) Total(year int) float64 {
	for _, y := range s.Years {
		if y.Year == year {
			return y.Revenue
		}
	}
	return 0
}

// Summarize computes yearly revenue totals, growth and the top-10 order count.
func Summarize(revenue []MonthlyRevenue, top []CategoryRevenue) Summary {
	var s Summary
	prev := 0.0
	for i, year := range Years {
		total := 0.0
		for _, m := range revenue {
			total += m.Value(year)
		}
		s.Years = append(s.Years, YearTotal{
			Year:    year,
			Revenue: total,
			Growth:  GrowthRate(prev, total),
			HasBase: i > 0 && prev > 0,
		})
		prev = total
	}
	for _, c := range top {
		s.TopCategoryOrders += c.NumOrder
	}
	return s
}

// YearDelivery holds the average delivery days of one year.
type YearDelivery struct {
	Year          int
	AvgReal       float64
	AvgEstimated  float64
	HasData       bool
	HasEstimate   bool
	RealChangePct float64
}

// DeliveryStats summarizes real against estimated delivery times.
type DeliveryStats struct {
	Years []YearDelivery
	// Accuracy is the mean over years of 100 - |real-estimated|/estimated*100.
	Accuracy      float64
	AccuracyYears int
}

// Year returns the stats of year.
func (d DeliveryStats) Year(year int) (YearDelivery, bool) {
	for _, y := range d.Years {
		if y.Year == year {
			return y, true
		}
	}
	return YearDelivery{}, false
}

// Delivery computes per-year delivery averages and the estimate accuracy.
// Months without data are ignored.
func Delivery(rows []DeliveryTime) DeliveryStats {
	var stats DeliveryStats
	var accSum float64
	var prevReal float64

	for _, year := range Years {
		yd := YearDelivery{Year: year}
		avgReal, nReal := mean(rows, func(d DeliveryTime) *float64 { return d.Real(year) })
		avgEst, nEst := mean(rows, func(d DeliveryTime) *float64 { return d.Estimated(year) })
		yd.AvgReal, yd.HasData = avgReal, nReal > 0
		yd.AvgEstimated, yd.HasEstimate = avgEst, nEst > 0
		if yd.HasData {
			yd.RealChangePct = GrowthRate(prevReal, avgReal)
			prevReal = avgReal
		}

		if yd.HasData && yd.HasEstimate && avgEst > 0 {
			diff := avgReal - avgEst
			if diff < 0 {
				diff = -diff
			}
			accSum += 100 - diff/avgEst*100
			stats.AccuracyYears++
		}
		stats.Years = append(stats.Years, yd)
	}

	if stats.AccuracyYears > 0 {
		stats.Accuracy = accSum / float64(stats.AccuracyYears)
	}
	return stats
}

func mean(rows []DeliveryTime, get func(DeliveryTime) *float64) (float64, int) {
	var sum float64
	var n int
	for _, r := range rows {
		if v := get(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// StateShare is a state's revenue and its share of the total.
type StateShare struct {
	State   string
	Revenue float64
	Share   float64
}

// Concentration describes how revenue is spread across states.
type Concentration struct {
	Total     float64
	Top5      []StateShare
	Top3Share float64
	Top5Share float64
	High      bool
}

// Geography ranks states by revenue and computes the top-3 and top-5
// shares of the total.
func Geography(states []StateRevenue) Concentration {
	ranked := append([]StateRevenue(nil), states...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })

	var c Concentration
	for _, s := range ranked {
		c.Total += s.Revenue
	}

	var top3, top5 float64
	for i, s := range ranked {
		if i >= 5 {
			break
		}
		if i < 3 {
			top3 += s.Revenue
		}
		top5 += s.Revenue
		c.Top5 = append(c.Top5, StateShare{State: s.State, Revenue: s.Revenue, Share: Share(s.Revenue, c.Total)})
	}
	c.Top3Share = Share(top3, c.Total)
	c.Top5Share = Share(top5, c.Total)
	c.High = c.Top3Share > ConcentrationWarning
	return c
}
