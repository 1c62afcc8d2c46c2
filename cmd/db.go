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

// dbConfig reads and validates the listings database settings.
func dbConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("db-backend")))
	connStr := viper.GetString("db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if backend == schema.NoneBackend {
		return fmt.Errorf("the db commands need a database backend (sqlite, mysql or postgresql)")
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output, err := minimalOutput()
	if err != nil {
		return err
	}

	cfg.ListingsBackend = backend
	cfg.ListingsDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// dbSetup opens the listings store after validating its settings.
func dbSetup() error {
	if err := dbConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores("", "", cfg.ListingsBackend, cfg.ListingsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize listings database: %w", err)
	}
	return nil
}

// dbSetupWrapper wraps dbSetup to provide PreRunE for db commands.
func dbSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbSetup()
}

// dbMigrateSetupWrapper only validates settings; migrations open their own connection.
func dbMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return dbConfig()
}

// dbCmd focused on the properties table behind the database source.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the properties table read by the database source",
	Long: `Manage the properties table that the 'database' source reads listings from.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  migrate - Create or upgrade the properties schema
  import  - Load a JSON or CSV file into the table
  status  - Show schema version and row count`,
}

// dbMigrateCmd runs database migrations for the properties table.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the properties table.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  propmatch db migrate

  # Rollback to initial state
  propmatch db migrate --target-version 0`,
	PreRunE: dbMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateListings(cfg.ListingsBackend, cfg.ListingsDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		if !result.Changed {
			fmt.Printf("Properties table already at version %d.\n", result.To)
			return
		}
		fmt.Printf("Migrated properties table from version %d to %d.\n", result.From, result.To)
	},
}

// dbImportCmd loads a file of listings into the properties table.
var dbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Normalize a JSON or CSV file and upsert it into the properties table",
	Long: `Normalize the records of a JSON or CSV file and upsert them by id.
The schema is migrated first. Records without an id get a generated one.

Examples:
  propmatch db import listings.json
  PROPMATCH_DB_BACKEND=postgresql PROPMATCH_DB_CONNECT="host=... dbname=..." propmatch db import sheet.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteImport(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Failed to import listings", err)
		}
	},
}

// dbStatusCmd shows the properties table status.
var dbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display schema version and row count of the properties table",
	PreRunE: dbSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteListingsStatus(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to get listings status", err)
		}
	},
}
