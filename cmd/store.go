package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/iocache"
	"github.com/tharaga/propmatch/schema"
)

// storeSetup loads minimal configuration needed for weights store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output, err := minimalOutput()
	if err != nil {
		return err
	}

	// Initialize the weights store only; listings stay closed.
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// minimalOutput validates the output format for commands that skip the shared setup.
func minimalOutput() (schema.OutputMode, error) {
	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if output == "" {
		return schema.TextOut, nil
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return "", fmt.Errorf("invalid output format '%s'", output)
	}
	return output, nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeCmd focused on weights store management.
//
// Note: Store subcommands use minimal initialization instead of the full
// sharedSetup used by listing commands. This skips source and filter
// validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the key/value store that keeps the score weights",
	Long: `Manage the key/value store that keeps the score weights.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show store statistics and connection info
  clear  - Remove all stored data`,
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored data",
	Long: `Delete all data from the configured store backend. Weights fall back to
their defaults afterwards.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store table

Examples:
  # Clear SQLite store (default)
  propmatch store clear

  # Clear MySQL store (set connection string via env variable)
  PROPMATCH_STORE_BACKEND=mysql PROPMATCH_STORE_DB_CONNECT="..." propmatch store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the handle first so the SQLite file can be removed cleanly.
		iocache.CloseCaching()
		if err := iocache.ClearStore(cfg.StoreBackend, contract.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend, connection state, entry count, entry timestamps and
table size of the weights store.

Examples:
  propmatch store status
  propmatch store status --output json`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}
