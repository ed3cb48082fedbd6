// Package revenue provides the product category revenue page.
package revenue

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
)

// SetupRoutes configures routes for the revenue feature.
func SetupRoutes(router chi.Router, source *dashboard.Source) error {
	handlers := NewHandlers(source)
	router.Get("/revenue", handlers.RevenuePage)
	return nil
}
