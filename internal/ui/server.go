// Package ui serves the analytics dashboard over the exported query results.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/olistflow/internal/dashboard"
	"github.com/leapstack-labs/olistflow/internal/ui/notifier"
	"github.com/leapstack-labs/olistflow/internal/ui/resources"
	"github.com/leapstack-labs/olistflow/internal/ui/router"
	"github.com/leapstack-labs/olistflow/pkg/core"
)

// debounceDelay groups the burst of events produced by one export run.
const debounceDelay = 200 * time.Millisecond

// Server is the dashboard server.
type Server struct {
	source       *dashboard.Source
	store        core.Store
	sessionStore *sessions.CookieStore
	host         string
	port         int
	watch        bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	onReady      func(url string)
}

// Config holds configuration for the dashboard server.
type Config struct {
	// ExportDir is the directory holding the exported JSON results.
	ExportDir string
	// Store is the run-history store; nil hides the runs page.
	Store         core.Store
	Host          string
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
	// OnReady is called with the dashboard URL once the listener is bound.
	OnReady func(url string)
}

// NewServer creates a new dashboard server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		source:       dashboard.NewSource(cfg.ExportDir, logger),
		store:        cfg.Store,
		sessionStore: sessionStore,
		host:         cfg.Host,
		port:         cfg.Port,
		watch:        cfg.Watch,
		logger:       logger,
		notifier:     notifier.New(),
		onReady:      cfg.OnReady,
	}
}

// Handler returns the dashboard's HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
		s.requestLogger,
	)

	if err := router.SetupRoutes(r, router.Deps{
		Source:   s.source,
		Store:    s.store,
		Sessions: s.sessionStore,
		Notifier: s.notifier,
		Dev:      s.IsDev(),
	}); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the dashboard and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.host, fmt.Sprint(s.port)))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	url := "http://" + displayAddr(ln.Addr())
	s.logger.Info("starting dashboard", slog.String("url", url), slog.String("export_dir", s.source.Dir()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard", slog.Int("live_clients", s.notifier.Subscribers()))
		return srv.Shutdown(shutdownCtx)
	})

	if s.onReady != nil {
		s.onReady(url)
	}

	return eg.Wait()
}

// IsDev reports whether static assets are served from the filesystem.
func (s *Server) IsDev() bool {
	return resources.IsDev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Source returns the server's export reader.
func (s *Server) Source() *dashboard.Source {
	return s.source
}

// watchFiles watches the export directory and pushes updates to open
// pages when result files change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := s.source.Dir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		s.logger.Error("failed to create export directory", slog.String("dir", dir), slog.Any("error", err))
	}
	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch export directory", slog.String("dir", dir), slog.Any("error", err))
		<-ctx.Done()
		return nil
	}

	var (
		mu            sync.Mutex
		pending       = map[string]struct{}{}
		debounceTimer *time.Timer
	)
	flush := func() {
		mu.Lock()
		names := make([]string, 0, len(pending))
		for n := range pending {
			names = append(names, n)
		}
		clear(pending)
		mu.Unlock()

		slices.Sort(names)
		s.logger.Debug("export files changed", slog.Any("files", names))
		s.source.Invalidate(names...)
		s.notifier.Broadcast(names...)
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, ok := exportName(event)
			if !ok {
				continue
			}

			mu.Lock()
			pending[name] = struct{}{}
			mu.Unlock()

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// exportName returns the result name of a changed .json file.
func exportName(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	base := filepath.Base(event.Name)
	if filepath.Ext(base) != ".json" {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func displayAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
