// Package router mounts the dashboard pages on a chi router.
package router

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/transform"
	chartsFeature "github.com/leapstack-labs/olistflow/internal/ui/features/charts"
	deliveryFeature "github.com/leapstack-labs/olistflow/internal/ui/features/delivery"
	geographyFeature "github.com/leapstack-labs/olistflow/internal/ui/features/geography"
	homeFeature "github.com/leapstack-labs/olistflow/internal/ui/features/home"
	revenueFeature "github.com/leapstack-labs/olistflow/internal/ui/features/revenue"
	runsFeature "github.com/leapstack-labs/olistflow/internal/ui/features/runs"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
	"github.com/leapstack-labs/olistflow/internal/ui/resources"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// Deps is everything the pages need.
type Deps struct {
	Source   *dashboard.Source
	Store    core.Store // nil hides the run history pages
	Sessions sessions.Store
	Notifier *notifier.Notifier
	Dev      bool
}

// Health is the /healthz body.
type Health struct {
	Status  string   `json:"status"`
	Exports []string `json:"exports"`
	Missing []string `json:"missing,omitempty"`
}

// SetupRoutes mounts static assets, the health probe and every feature.
func SetupRoutes(r chi.Router, deps Deps) error {
	if deps.Dev {
		mountReload(r)
	}

	r.Handle("/static/*", resources.Handler())
	r.Get("/healthz", healthHandler(deps.Source))

	mounts := []func() error{
		func() error { return homeFeature.SetupRoutes(r, deps.Source, deps.Notifier) },
		func() error { return revenueFeature.SetupRoutes(r, deps.Source) },
		func() error { return deliveryFeature.SetupRoutes(r, deps.Source, deps.Sessions) },
		func() error { return geographyFeature.SetupRoutes(r, deps.Source) },
		func() error { return chartsFeature.SetupRoutes(r, deps.Source) },
	}
	if deps.Store != nil {
		mounts = append(mounts, func() error { return runsFeature.SetupRoutes(r, deps.Store, deps.Notifier) })
	}
	for _, mount := range mounts {
		if err := mount(); err != nil {
			return err
		}
	}
	return nil
}

// healthHandler reports which query exports are present. The server is
// healthy either way; missing files only mean the pipeline has not run.
func healthHandler(source *dashboard.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h := Health{Status: "ok", Exports: []string{}}
		for _, name := range transform.Names() {
			if _, err := os.Stat(filepath.Join(source.Dir(), name+".json")); err == nil {
				h.Exports = append(h.Exports, name)
			} else {
				h.Missing = append(h.Missing, name)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h)
	}
}

// mountReload serves the dev-mode live reload pair: browsers hold /reload
// open and a file watcher pokes /hotreload.
func mountReload(r chi.Router) {
	pending := make(chan struct{}, 1)
	var first sync.Once

	r.Get("/reload", func(w http.ResponseWriter, req *http.Request) {
		sse := datastar.NewSSE(w, req)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		first.Do(reload)
		select {
		case <-pending:
			reload()
		case <-req.Context().Done():
		}
	})

	r.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case pending <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
