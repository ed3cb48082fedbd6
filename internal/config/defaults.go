package config

import (
	"time"

	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Default configuration values.
const (
	DefaultDatasetDir      = "dataset"
	DefaultExportDir       = "query_results"
	DefaultDatabase        = "olist.db"
	DefaultTargetType      = "sqlite"
	DefaultHolidaysURL     = "https://date.nager.at/api/v3/publicholidays"
	DefaultHolidaysCountry = "BR"
	DefaultHolidaysYear    = 2017
	DefaultHolidaysTimeout = 20 * time.Second
)

// HolidaysTable is the table the holidays API result is stored under.
const HolidaysTable = "public_holidays"

// ResultPrefix marks derived query-result tables.
const ResultPrefix = "qry_"

// DefaultSources returns the Olist file-to-table mapping.
func DefaultSources() []Source {
	return []Source{
		{File: "olist_customers_dataset.csv", Table: "olist_customers"},
		{File: "olist_geolocation_dataset.csv", Table: "olist_geolocation"},
		{File: "olist_order_items_dataset.csv", Table: "olist_order_items"},
		{File: "olist_order_payments_dataset.csv", Table: "olist_order_payments"},
		{File: "olist_order_reviews_dataset.csv", Table: "olist_order_reviews"},
		{File: "olist_orders_dataset.csv", Table: "olist_orders"},
		{File: "olist_products_dataset.csv", Table: "olist_products"},
		{File: "olist_sellers_dataset.csv", Table: "olist_sellers"},
		{File: "product_category_name_translation.csv", Table: "product_category_name_translation"},
	}
}

// ApplyDefaults fills unset fields of a PipelineConfig.
func ApplyDefaults(c *PipelineConfig) {
	if c == nil {
		return
	}
	if c.DatasetDir == "" {
		c.DatasetDir = DefaultDatasetDir
	}
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
	if c.Holidays == nil {
		c.Holidays = &HolidaysConfig{}
	}
	ApplyHolidaysDefaults(c.Holidays)
	if c.Target == nil {
		c.Target = &core.TargetConfig{}
	}
	ApplyTargetDefaults(c.Target)
}

// ApplyHolidaysDefaults applies default values to a HolidaysConfig.
func ApplyHolidaysDefaults(h *HolidaysConfig) {
	if h == nil {
		return
	}
	if h.URL == "" {
		h.URL = DefaultHolidaysURL
	}
	if h.Country == "" {
		h.Country = DefaultHolidaysCountry
	}
	if h.Year == 0 {
		h.Year = DefaultHolidaysYear
	}
	if h.Timeout <= 0 {
		h.Timeout = DefaultHolidaysTimeout
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}
	if t.Type == "" {
		t.Type = DefaultTargetType
	}
	if t.Database == "" {
		t.Database = DefaultDatabase
	}
}
