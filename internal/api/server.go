package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
)

const shutdownTimeout = 5 * time.Second

// NewEngine wires the session, weights and router for cfg without listening.
// The returned session is the one the handlers read from.
func NewEngine(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*gin.Engine, *core.Session) {
	log := core.LoggerFrom(ctx).With("surface", "http")
	session := core.NewSessionFromConfig(cfg, mgr, log)
	handler := NewHandler(cfg, session, core.NewWeightsFromManager(mgr, log))
	router := NewRouter(RouterConfig{
		Handler:     handler,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})
	return router, session
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := core.LoggerFrom(ctx)
	router, session := NewEngine(ctx, cfg, mgr)

	refresher := NewRefresher(session, log)
	if err := refresher.Start(ctx, cfg.Refresh); err != nil {
		return fmt.Errorf("cannot schedule refresh: %w", err)
	}
	defer refresher.Stop()

	// Warm the listings so the first request does not pay for the fetch.
	go session.Load(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
