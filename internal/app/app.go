package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/config"
	"github.com/tripspend/tripspend/pkg/ui"
)

// Application wires configuration, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

const shutdownTimeout = 10 * time.Second

// NewApplication constructs the full HTTP application from the config file at configPath,
// ready to Run().
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	templates, err := ui.ParseTemplates()
	if err != nil {
		return nil, err
	}

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(cfg, templates)

	r := NewRouter(deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Addr,
		WriteTimeout: cfg.Gist.Timeout + 15*time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// NewRouter builds the router with its middleware chain and routes.
func NewRouter(deps *Dependencies, cfg config.Application) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	return r
}

// Run serves HTTP until ctx is cancelled, then drains open requests.
func (a *Application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.srv.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (a *Application) Serve(ctx context.Context, listener net.Listener) error {
	log.Infof("Starting server on %s, expenses stored in gist '%s' file '%s'", listener.Addr(), a.cfg.Gist.Id, a.cfg.Gist.Filename)

	served := make(chan error, 1)
	go func() {
		served <- a.srv.Serve(listener)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("Server stopped")
	return nil
}
