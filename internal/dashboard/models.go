package dashboard

import "time"

// Export file names.
const (
	FileRevenueByMonth     = "revenue_by_month_year"
	FileTopCategories      = "top_10_revenue_categories"
	FileLeastCategories    = "top_10_least_revenue_categories"
	FileRevenuePerState    = "revenue_per_state"
	FileDeliveryTimes      = "real_vs_estimated_delivered_time"
	FileDeliveryDifference = "delivery_date_difference"
	FileOrderStatus        = "global_ammount_order_status"
	FileOrdersPerDay       = "orders_per_day_and_holidays"
	FileFreightWeight      = "freight_value_weight_relationship"
)

// Years covered by the dataset.
var Years = []int{2016, 2017, 2018}

// MonthlyRevenue is a row of revenue_by_month_year.
type MonthlyRevenue struct {
	MonthNo  string  `json:"month_no"`
	Month    string  `json:"month"`
	Year2016 float64 `json:"Year2016"`
	Year2017 float64 `json:"Year2017"`
	Year2018 float64 `json:"Year2018"`
}

// Value returns the revenue of the given year.
func (m MonthlyRevenue) Value(year int) float64 {
	switch year {
	case 2016:
		return m.Year2016
	case 2017:
		return m.Year2017
	case 2018:
		return m.Year2018
	}
	return 0
}

// CategoryRevenue is a row of the top and least revenue category files.
type CategoryRevenue struct {
	Category string  `json:"Category"`
	NumOrder int64   `json:"Num_order"`
	Revenue  float64 `json:"Revenue"`
}

// StateRevenue is a row of revenue_per_state.
type StateRevenue struct {
	State   string  `json:"customer_state"`
	Revenue float64 `json:"Revenue"`
}

// DeliveryTime is a row of real_vs_estimated_delivered_time. Missing
// months of a year are nil.
type DeliveryTime struct {
	MonthNo       string   `json:"month_no"`
	Month         string   `json:"month"`
	Real2016      *float64 `json:"Year2016_real_time"`
	Real2017      *float64 `json:"Year2017_real_time"`
	Real2018      *float64 `json:"Year2018_real_time"`
	Estimated2016 *float64 `json:"Year2016_estimated_time"`
	Estimated2017 *float64 `json:"Year2017_estimated_time"`
	Estimated2018 *float64 `json:"Year2018_estimated_time"`
}

// Real returns the average real delivery days of year.
func (d DeliveryTime) Real(year int) *float64 {
	switch year {
	case 2016:
		return d.Real2016
	case 2017:
		return d.Real2017
	case 2018:
		return d.Real2018
	}
	return nil
}

// Estimated returns the average estimated delivery days of year.
func (d DeliveryTime) Estimated(year int) *float64 {
	switch year {
	case 2016:
		return d.Estimated2016
	case 2017:
		return d.Estimated2017
	case 2018:
		return d.Estimated2018
	}
	return nil
}

// DeliveryDifference is a row of delivery_date_difference.
type DeliveryDifference struct {
	State      string `json:"State"`
	Difference int64  `json:"Delivery_Difference"`
}

// OrderStatus is a row of global_ammount_order_status.
type OrderStatus struct {
	Status string `json:"order_status"`
	Amount int64  `json:"Ammount"`
}

// DayOrders is a row of orders_per_day_and_holidays.
type DayOrders struct {
	OrderCount int64 `json:"order_count"`
	DateMS     int64 `json:"date"`
	Holiday    bool  `json:"holiday"`
}

// Date returns the day as a UTC time.
func (d DayOrders) Date() time.Time {
	return time.UnixMilli(d.DateMS).UTC()
}

// FreightWeight is a row of freight_value_weight_relationship.
type FreightWeight struct {
	OrderID      string  `json:"order_id"`
	FreightValue float64 `json:"freight_value"`
	WeightG      float64 `json:"product_weight_g"`
}

// MonthlyRevenue loads revenue_by_month_year.
func (s *Source) MonthlyRevenue() ([]MonthlyRevenue, error) {
	var out []MonthlyRevenue
	return out, s.Decode(FileRevenueByMonth, &out)
}

// TopCategories loads top_10_revenue_categories.
func (s *Source) TopCategories() ([]CategoryRevenue, error) {
	var out []CategoryRevenue
	return out, s.Decode(FileTopCategories, &out)
}

// LeastCategories loads top_10_least_revenue_categories.
func (s *Source) LeastCategories() ([]CategoryRevenue, error) {
	var out []CategoryRevenue
	return out, s.Decode(FileLeastCategories, &out)
}

// StateRevenue loads revenue_per_state.
func (s *Source) StateRevenue() ([]StateRevenue, error) {
	var out []StateRevenue
	return out, s.Decode(FileRevenuePerState, &out)
}

// DeliveryTimes loads real_vs_estimated_delivered_time.
func (s *Source) DeliveryTimes() ([]DeliveryTime, error) {
	var out []DeliveryTime
	return out, s.Decode(FileDeliveryTimes, &out)
}

// DeliveryDifferences loads delivery_date_difference.
func (s *Source) DeliveryDifferences() ([]DeliveryDifference, error) {
	var out []DeliveryDifference
	return out, s.Decode(FileDeliveryDifference, &out)
}

// OrderStatuses loads global_ammount_order_status.
func (s *Source) OrderStatuses() ([]OrderStatus, error) {
	var out []OrderStatus
	return out, s.Decode(FileOrderStatus, &out)
}

// OrdersPerDay loads orders_per_day_and_holidays.
func (s *Source) OrdersPerDay() ([]DayOrders, error) {
	var out []DayOrders
	return out, s.Decode(FileOrdersPerDay, &out)
}

// FreightWeights loads freight_value_weight_relationship.
func (s *Source) FreightWeights() ([]FreightWeight, error) {
	var out []FreightWeight
	return out, s.Decode(FileFreightWeight, &out)
}
