// Package charts serves the dashboard charts as standalone HTML documents
// rendered with go-echarts. Pages embed them by URL.
package charts

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
)

// SetupRoutes configures routes for the charts feature.
func SetupRoutes(router chi.Router, source *dashboard.Source) error {
	handlers := NewHandlers(source)
	router.Get("/charts/{name}", handlers.Chart)
	return nil
}
