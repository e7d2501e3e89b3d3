package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/capreg/internal/registry"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// healthHandler reports the registry state. A registry that is not Loaded
// answers 503 so orchestrators hold traffic until discovery is done.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	state := a.registry.State()
	if state != registry.StateLoaded {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	fmt.Fprintln(w, state)
}

// modulesHandler returns the registry snapshot as JSON.
func (a *App) modulesHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Modules endpoint hit.", "remote_addr", r.RemoteAddr)
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.registry.Snapshot()); err != nil {
		a.logger.Error("Failed to encode registry snapshot", "error", err)
	}
}

// Handler returns the introspection routes served alongside the health check.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/modules", a.modulesHandler)
	return mux
}

// Serve runs the health check server until ctx is cancelled, then shuts it
// down gracefully. A non-positive port disables the server and Serve simply
// waits for ctx.
func (a *App) Serve(ctx context.Context) error {
	if a.config.HealthcheckPort <= 0 {
		a.logger.Warn("Health check server not started: disabled")
		<-ctx.Done()
		return nil
	}

	addr := fmt.Sprintf(":%d", a.config.HealthcheckPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := a.httpServer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health check server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.closeHealthCheckServer(context.Background())
	})
	return g.Wait()
}

func (a *App) closeHealthCheckServer(ctx context.Context) error {
	if a.httpServer == nil {
		a.logger.Debug("Health check server was not running.")
		return nil
	}
	srv := a.httpServer
	a.httpServer = nil

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server...")
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("Health check server shut down gracefully.")
	return nil
}
