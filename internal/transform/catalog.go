// Package transform runs the fixed catalog of analytical queries against
// the warehouse.
package transform

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"text/template"
)

//go:embed queries/*/*.sql
var queriesFS embed.FS

// Query is one entry of the catalog.
type Query struct {
	Name string

	// Timestamps lists result columns converted to timestamps.
	Timestamps []string

	// Booleans lists result columns converted to booleans.
	Booleans []string
}

// Catalog is the fixed list of analytical queries, in execution order.
var Catalog = []Query{
	{Name: "revenue_by_month_year"},
	{Name: "delivery_date_difference"},
	{Name: "global_ammount_order_status"},
	{Name: "revenue_per_state"},
	{Name: "top_10_least_revenue_categories"},
	{Name: "top_10_revenue_categories"},
	{Name: "real_vs_estimated_delivered_time"},
	{Name: "orders_per_day_and_holidays", Timestamps: []string{"date"}, Booleans: []string{"holiday"}},
	{Name: "freight_value_weight_relationship"},
}

// Params are the values substituted into query templates.
type Params struct {
	HolidayYear int
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Query, bool) {
	for _, q := range Catalog {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}

// Names returns the catalog query names in order.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, q := range Catalog {
		names[i] = q.Name
	}
	return names
}

// Dialects returns the dialects that have a query set.
func Dialects() ([]string, error) {
	entries, err := fs.ReadDir(queriesFS, "queries")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// SQL returns the rendered SQL of query name for dialect.
func SQL(dialect, name string, params Params) (string, error) {
	raw, err := queriesFS.ReadFile(path.Join("queries", dialect, name+".sql"))
	if err != nil {
		return "", fmt.Errorf("no %s query %q: %w", dialect, name, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parsing query %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("rendering query %s: %w", name, err)
	}
	return buf.String(), nil
}
