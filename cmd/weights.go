package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
)

// weightsCmd focused on score weight management.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Manage the score weights used for ranking",
	Long: `Manage the five weights that combine the score components.

Weights are kept in the store backend (SQLite by default) so every command,
the HTTP API and the MCP server rank with the same values.

Subcommands:
  get   - Show the active weights
  set   - Change one or more weights
  reset - Restore the defaults`,
}

var weightsGetCmd = &cobra.Command{
	Use:     "get",
	Short:   "Show the active score weights",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeightsGet(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot read weights", err)
		}
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set [key=value...]",
	Short: "Change one or more score weights",
	Long: `Merge new values into the stored weights. Keys are text, recency, value,
amenity and metro. Omitted keys keep their current value.

Without arguments the weights from the config file are applied:

  weights:
    text: 1.5
    metro: 2

Examples:
  propmatch weights set metro=2 value=0.5
  propmatch weights set    # apply the weights block of .propmatch.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		upd, err := contract.ParseWeightsArgs(args)
		if err != nil {
			contract.LogFatal("Invalid weights", err)
		}
		if err := core.ExecuteWeightsSet(rootCtx, cfg, cacheManager, upd); err != nil {
			contract.LogFatal("Cannot set weights", err)
		}
	},
}

var weightsResetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Restore the default score weights",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeightsReset(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot reset weights", err)
		}
	},
}
