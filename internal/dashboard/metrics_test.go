package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur float64
		want      float64
	}{
		{name: "zero base", prev: 0, cur: 100, want: 0},
		{name: "negative base", prev: -5, cur: 100, want: 0},
		{name: "growth", prev: 100, cur: 150, want: 50},
		{name: "decline", prev: 200, cur: 50, want: -75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GrowthRate(tt.prev, tt.cur), 1e-9)
		})
	}
}

func TestShare(t *testing.T) {
	assert.Equal(t, 0.0, Share(10, 0))
	assert.InDelta(t, 25.0, Share(10, 40), 1e-9)
}

func TestSummarize(t *testing.T) {
	revenue := []MonthlyRevenue{
		{Month: "Jan", Year2016: 0, Year2017: 100, Year2018: 200},
		{Month: "Feb", Year2016: 0, Year2017: 300, Year2018: 400},
	}
	top := []CategoryRevenue{{NumOrder: 3}, {NumOrder: 4}}

	s := Summarize(revenue, top)

	require.Len(t, s.Years, 3)
	assert.Equal(t, 0.0, s.Total(2016))
	assert.Equal(t, 400.0, s.Total(2017))
	assert.Equal(t, 600.0, s.Total(2018))
	assert.Equal(t, 0.0, s.Total(2019))

	assert.False(t, s.Years[1].HasBase)
	assert.Equal(t, 0.0, s.Years[1].Growth)
	assert.True(t, s.Years[2].HasBase)
	assert.InDelta(t, 50.0, s.Years[2].Growth, 1e-9)
	assert.Equal(t, int64(7), s.TopCategoryOrders)
}

func TestDelivery(t *testing.T) {
	rows := []DeliveryTime{
		{Month: "Jan", Real2017: ptr(10), Estimated2017: ptr(20), Real2018: ptr(8), Estimated2018: ptr(16)},
		{Month: "Feb", Real2017: ptr(20), Estimated2017: ptr(30)},
	}

	d := Delivery(rows)

	y16, ok := d.Year(2016)
	require.True(t, ok)
	assert.False(t, y16.HasData)

	y17, _ := d.Year(2017)
	assert.True(t, y17.HasData)
	assert.InDelta(t, 15.0, y17.AvgReal, 1e-9)
	assert.InDelta(t, 25.0, y17.AvgEstimated, 1e-9)

	y18, _ := d.Year(2018)
	assert.InDelta(t, 8.0, y18.AvgReal, 1e-9)
	assert.InDelta(t, (8.0-15.0)/15.0*100, y18.RealChangePct, 1e-9)

	// 2017: 100 - 10/25*100 = 60; 2018: 100 - 8/16*100 = 50.
	assert.Equal(t, 2, d.AccuracyYears)
	assert.InDelta(t, 55.0, d.Accuracy, 1e-9)

	empty := Delivery(nil)
	assert.Equal(t, 0, empty.AccuracyYears)
	assert.Equal(t, 0.0, empty.Accuracy)
}

func TestGeography(t *testing.T) {
	tests := []struct {
		name     string
		states   []StateRevenue
		top3     float64
		top5     float64
		high     bool
		topState string
	}{
		{
			name: "concentrated",
			states: []StateRevenue{
				{State: "RJ", Revenue: 20}, {State: "SP", Revenue: 60},
				{State: "MG", Revenue: 10}, {State: "RS", Revenue: 5},
				{State: "PR", Revenue: 3}, {State: "SC", Revenue: 2},
			},
			top3: 90, top5: 98, high: true, topState: "SP",
		},
		{
			name: "balanced",
			states: []StateRevenue{
				{State: "SP", Revenue: 20}, {State: "RJ", Revenue: 20},
				{State: "MG", Revenue: 20}, {State: "RS", Revenue: 20}, {State: "PR", Revenue: 20},
			},
			top3: 60, top5: 100, high: false, topState: "SP",
		},
		{name: "empty", states: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Geography(tt.states)
			assert.InDelta(t, tt.top3, c.Top3Share, 1e-9)
			assert.InDelta(t, tt.top5, c.Top5Share, 1e-9)
			assert.Equal(t, tt.high, c.High)
			assert.LessOrEqual(t, len(c.Top5), 5)
			if tt.topState != "" {
				assert.Equal(t, tt.topState, c.Top5[0].State)
			}
		})
	}
}
