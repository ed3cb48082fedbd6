// Package geography provides the revenue-by-state page.
package geography

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
)

// SetupRoutes configures routes for the geography feature.
func SetupRoutes(router chi.Router, source *dashboard.Source) error {
	handlers := NewHandlers(source)
	router.Get("/geography", handlers.GeographyPage)
	return nil
}
