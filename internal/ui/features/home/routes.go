// Package home provides the summary page and its live updates.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, source *dashboard.Source, notify *notifier.Notifier) error {
	handlers := NewHandlers(source, notify)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)

	return nil
}
