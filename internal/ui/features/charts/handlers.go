package charts

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/features/common"
)

// Handlers provides HTTP handlers for the charts feature.
type Handlers struct {
	source *dashboard.Source
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source *dashboard.Source) *Handlers {
	return &Handlers{source: source}
}

// Chart renders the named chart as an HTML document.
func (h *Handlers) Chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	build, ok := builders[name]
	if !ok {
		http.Error(w, "unknown chart: "+name, http.StatusNotFound)
		return
	}

	chart, err := build(h.source, r.URL.Query())
	if errors.Is(err, dashboard.ErrNoData) {
		http.Error(w, common.NoDataMessage, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
