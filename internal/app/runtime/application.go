// Package runtime wires configuration, services, HTTP and background jobs
// into a runnable process.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	app "github.com/sanctum-collective/sanctum/internal/app"
	"github.com/sanctum-collective/sanctum/internal/app/httpapi"
	"github.com/sanctum-collective/sanctum/internal/app/jobs"
	"github.com/sanctum-collective/sanctum/internal/config"
	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Application owns the process lifecycle: HTTP server and job scheduler.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	core   *app.Application
	server *http.Server
	sched  *jobs.Scheduler
}

// NewApplication constructs a fully wired application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig wires an application over an explicit config.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(cfg.Logging).WithField("service", "sanctum")

	core := app.New(app.Stores{}, app.Options{}, log)

	sched, err := jobs.New(core, cfg.Jobs, log.WithField("component", "jobs"))
	if err != nil {
		return nil, fmt.Errorf("configure jobs: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           httpapi.NewHandler(core),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Application{
		cfg:    cfg,
		log:    log,
		core:   core,
		server: server,
		sched:  sched,
	}, nil
}

// Core exposes the service bundle, mainly for tests and tooling.
func (a *Application) Core() *app.Application { return a.core }

// Run starts the scheduler and HTTP server and blocks until the context is
// cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	a.sched.Start()

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.cfg.Server.Address())
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the scheduler and drains the HTTP server.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a.sched.Stop()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
