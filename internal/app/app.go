package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/eventcal/internal/config"
	"github.com/klokku/eventcal/internal/database"
	"github.com/klokku/eventcal/internal/rest"
	"github.com/klokku/eventcal/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
	deps   *Dependencies
	close  func()
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps := BuildDependencies(store, cfg)

	SetupMiddleware(r, deps, cfg)

	RegisterRoutes(r, deps, cfg)

	if cfg.Frontend.Enabled {
		log.Infof("Serving frontend from %s", cfg.Frontend.Dir)
		frontend := rest.NewFrontendHandler(cfg.Frontend.Dir, "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, deps: deps, close: closeStore}, nil
}

// OpenStore opens the event store selected by cfg.Storage. The returned
// function releases the underlying connection.
func OpenStore(ctx context.Context, cfg config.Application) (calendar.Store, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Infof("Using PostgreSQL storage at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return calendar.NewRepository(pool), pool.Close, nil
	case config.StorageSqlite:
		db, err := database.OpenSqlite(cfg.Sqlite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using SQLite storage at %s", cfg.Sqlite.Path)
		return calendar.NewKeyValueRepository(db), func() {
			if err := db.Close(); err != nil {
				log.Errorf("failed to close sqlite database: %v", err)
			}
		}, nil
	case config.StorageMemory:
		log.Warn("Using in-memory storage, events are lost on exit")
		return calendar.NewRepositoryStub(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}
}

// Handler exposes the router, mostly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}
