// Package delivery provides the delivery performance page.
package delivery

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
)

// SetupRoutes configures routes for the delivery feature.
func SetupRoutes(router chi.Router, source *dashboard.Source, sessionStore sessions.Store) error {
	handlers := NewHandlers(source, sessionStore)
	router.Get("/delivery", handlers.DeliveryPage)
	return nil
}
