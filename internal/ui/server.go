// Package ui serves the tablescope dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/tablescope/internal/catalog"
	"github.com/leapstack-labs/tablescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/tablescope/internal/ui/notifier"
	"github.com/leapstack-labs/tablescope/internal/ui/router"
)

const debounceDelay = 100 * time.Millisecond

// Server is the dashboard HTTP server.
type Server struct {
	inspector    *catalog.Inspector
	sessionStore *sessions.CookieStore
	dataDir      string
	extensions   []string
	host         string
	port         int
	debug        bool
	pageSize     int
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Inspector     *catalog.Inspector
	DataDir       string
	Extensions    []string
	Host          string
	Port          int
	Debug         bool
	PageSize      int
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance. Without a session secret a
// random one is generated, so selections are forgotten on restart.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	inspector := cfg.Inspector
	if inspector == nil {
		inspector = catalog.NewInspector(logger)
	}
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{catalog.DefaultExtension}
	}

	sessionStore := sessions.NewCookieStore([]byte(secret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		inspector:    inspector,
		sessionStore: sessionStore,
		dataDir:      cfg.DataDir,
		extensions:   exts,
		host:         cfg.Host,
		port:         cfg.Port,
		debug:        cfg.Debug,
		pageSize:     cfg.PageSize,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, dashboard.Config{
		Inspector:    s.inspector,
		DataDir:      s.dataDir,
		Extensions:   s.extensions,
		PageSize:     s.pageSize,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		IsDev:        s.debug,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the server and the data directory watcher and blocks until
// the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.Addr(),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("starting dashboard", "url", "http://"+s.Addr(), "data_dir", s.dataDir, "debug", s.debug)

	eg.Go(func() error {
		return s.watchDataDir(egctx)
	})

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the notifier used for live updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchDataDir broadcasts database files appearing in or leaving the data
// directory. A directory that cannot be watched only disables live updates.
func (s *Server) watchDataDir(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dataDir); err != nil {
		s.logger.Warn("live database list disabled", "error", err, "dir", s.dataDir)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			ev, relevant := s.databaseEvent(event)
			if !relevant {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.logger.Debug("database list changed", "file", ev.Name, "op", ev.Op)
				s.notifier.Broadcast(ev)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// databaseEvent filters watcher events down to database files being added
// or removed.
func (s *Server) databaseEvent(event fsnotify.Event) (notifier.Event, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return notifier.Event{}, false
	}
	name := filepath.Base(event.Name)
	if !catalog.HasExtension(name, s.extensions) {
		return notifier.Event{}, false
	}
	return notifier.Event{Name: name, Op: event.Op.String()}, true
}
