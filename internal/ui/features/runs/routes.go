// Package runs provides run history handlers for the UI.
package runs

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// SetupRoutes registers the runs history feature routes.
func SetupRoutes(router chi.Router, store core.Store, notify *notifier.Notifier) error {
	handlers := NewHandlers(store, notify)

	router.Get("/runs", handlers.RunsPage)
	router.Get("/runs/updates", handlers.RunsPageUpdates)
	router.Get("/runs/{id}", handlers.RunDetailPage)

	return nil
}
