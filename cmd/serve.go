package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tharaga/propmatch/internal/api"
	"github.com/tharaga/propmatch/internal/contract"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve listings and weights over HTTP",
	Long: `Start an HTTP API over the configured sources.

Endpoints:
  GET    /healthcheck
  GET    /api/properties              search (q, mode, cities, minPrice, maxPrice, bhk, sort, page, ...)
  GET    /api/properties/:id          detail view (principal, rate, years)
  GET    /api/properties/:id/explain  score breakdown
  GET    /api/weights                 active weights
  PATCH  /api/weights                 merge new weights
  DELETE /api/weights                 restore defaults

Listings are fetched once and kept in memory; --refresh refetches them on a
cron schedule.

Examples:
  propmatch serve --addr :8080 --local listings.json --stations stations.json
  propmatch serve --refresh "@every 15m" --cors-origins http://localhost:3000`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := api.Serve(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("HTTP server failed", err)
		}
		return nil
	},
}
