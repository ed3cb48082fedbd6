package common

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/olistflow/internal/ui/resources"
)

// ContentID is the id of the element replaced by live updates.
const ContentID = "ui-content"

// DatastarScript is the datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

// NavItem is an entry of the navigation bar.
type NavItem struct {
	Path  string
	Label string
}

// Nav lists the dashboard pages.
var Nav = []NavItem{
	{Path: "/", Label: "Summary"},
	{Path: "/revenue", Label: "Revenue"},
	{Path: "/delivery", Label: "Delivery"},
	{Path: "/geography", Label: "Geography"},
	{Path: "/runs", Label: "Runs"},
}

// htmlWriter writes markup and remembers the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// Page renders a complete HTML document around the page content.
// When updatesURL is set the page subscribes to it for live updates.
func Page(title, currentPath, updatesURL string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` - Olist Analytics</title>`)
		h.raw(`<link rel="stylesheet" href="` + resources.StaticPath("app.css") + `">`)
		h.raw(`<script type="module" src="` + DatastarScript + `"></script>`)
		h.raw(`</head><body>`)
		if updatesURL != "" {
			h.raw(`<div data-init="@get('`)
			h.text(updatesURL)
			h.raw(`')"></div>`)
		}
		h.raw(`<nav class="nav"><span class="brand">Olist E-commerce Analytics</span>`)
		for _, item := range Nav {
			h.raw(`<a href="`)
			h.text(item.Path)
			h.raw(`"`)
			if item.Path == currentPath {
				h.raw(` class="active"`)
			}
			h.raw(`>`)
			h.text(item.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
		h.component(ctx, Content(content))
		h.raw(`<footer>Olist E-commerce Analytics | data 2016-2018</footer></body></html>`)
		return h.err
	})
}

// Content wraps page content in the element targeted by live updates.
func Content(inner templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<main id="` + ContentID + `">`)
		h.component(ctx, inner)
		h.raw(`</main>`)
		return h.err
	})
}

// Section renders a titled block.
func Section(title string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section><h2>`)
		h.text(title)
		h.raw(`</h2>`)
		for _, c := range children {
			h.component(ctx, c)
		}
		h.raw(`</section>`)
		return h.err
	})
}

// Metric is a headline figure.
type Metric struct {
	Label string
	Value string
	Delta string
}

// Metrics renders a row of metric cards.
func Metrics(items ...Metric) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="metrics">`)
		for _, m := range items {
			h.raw(`<div class="metric"><div class="label">`)
			h.text(m.Label)
			h.raw(`</div><div class="value">`)
			h.text(m.Value)
			h.raw(`</div>`)
			if m.Delta != "" {
				h.raw(`<div class="delta">`)
				h.text(m.Delta)
				h.raw(`</div>`)
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

// Table renders a simple data table.
func Table(headers []string, rows [][]string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<table><thead><tr>`)
		for _, c := range headers {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.raw(`<td>`)
				h.text(cell)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}

// Chart embeds the chart served at /charts/{name}.
func Chart(name string, height int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<iframe class="chart" loading="lazy" src="/charts/`)
		h.text(name)
		h.raw(`" style="height:`)
		h.text(Count(int64(height)))
		h.raw(`px"></iframe>`)
		return h.err
	})
}

// Alert renders a notice; kind is "info", "success" or "warning".
func Alert(kind, msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="alert alert-`)
		h.text(kind)
		h.raw(`">`)
		h.text(msg)
		h.raw(`</div>`)
		return h.err
	})
}

// Text renders a paragraph.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<p>`)
		h.text(s)
		h.raw(`</p>`)
		return h.err
	})
}

// Group renders components one after another.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		for _, c := range children {
			h.component(ctx, c)
		}
		return h.err
	})
}
