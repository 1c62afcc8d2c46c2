// Package cmd defines the command-line interface for propmatch.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the weights subcommands to the parent weights command
	weightsCmd.AddCommand(weightsGetCmd)
	weightsCmd.AddCommand(weightsSetCmd)
	weightsCmd.AddCommand(weightsResetCmd)

	stationsCmd.AddCommand(stationsNearestCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbImportCmd)
	dbCmd.AddCommand(dbStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	pf := rootCmd.PersistentFlags()
	pf.StringP("query", "q", "", "Free text matched against title, project, city, locality, address and summary")
	pf.String("mode", "", "Listing category: buy or rent or commercial")
	pf.String("cities", "", "Comma-separated cities to keep ('All' disables the filter)")
	pf.String("localities", "", "Comma-separated localities to keep ('All' disables the filter)")
	pf.Float64("min-price", 0, "Minimum price in INR (0 = no bound)")
	pf.Float64("max-price", 0, "Maximum price in INR (0 = no bound)")
	pf.String("type", "", "Property type, e.g. Apartment or Villa")
	pf.String("bhk", "", "Bedroom count, e.g. 2 or 4+")
	pf.String("furnished", "", "Furnishing status")
	pf.String("facing", "", "Facing direction")
	pf.Float64("min-area", 0, "Minimum carpet area in sqft (0 = no bound)")
	pf.Float64("max-area", 0, "Maximum carpet area in sqft (0 = no bound)")
	pf.String("amenity", "", "Amenity that must be present, e.g. Gym")
	pf.Bool("want-metro", false, "Only keep listings within walking distance of a station")
	pf.Float64("max-walk", 0, "Walking budget in minutes when --want-metro is set (0 = default)")
	pf.String("sort", string(schema.SortRelevance), "Sort: relevance or newest or priceLow or priceHigh or areaHigh")
	pf.Int("page", 1, "1-based result page")
	pf.Int("page-size", schema.DefaultPageSize, "Listings per page")
	pf.String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	pf.String("output-file", "", "Optional path to write output to")
	pf.Int("width", 0, "Terminal width override (0 = auto-detect)")
	pf.String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	pf.String("sources", "", "Comma-separated source order: api, supabase, database, sheet, local")
	pf.String("api-url", "", "URL of a listings API returning a JSON array")
	pf.String("supabase-url", "", "Base URL of a Supabase project with a properties table")
	pf.String("supabase-key", "", "Supabase anon key (prefer PROPMATCH_SUPABASE_KEY)")
	pf.String("sheet", "", "URL or path of a CSV export of the listings sheet")
	pf.String("local", "", "Path of a local JSON file with a properties array")
	pf.String("stations", "", "URL or path of the transit station list")
	pf.Int("fetch-limit", contract.DefaultFetchLimit, "Maximum rows fetched from Supabase or the database")
	pf.String("timeout", contract.DefaultHTTPTimeout.String(), "Timeout for remote sources")
	pf.String("db-backend", string(schema.SQLiteBackend), "Listings database backend: sqlite or mysql or postgresql or none")
	pf.String("db-connect", "", "Listings database connection string for mysql/postgresql")
	pf.String("store-backend", string(schema.SQLiteBackend), "Weights store backend: sqlite or mysql or postgresql or none")
	pf.String("store-db-connect", "", "Weights store connection string for mysql/postgresql")
	pf.String("log-mode", contract.DefaultLogMode, "Log format: development or production")
	pf.String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	pf.String("config", "", "Path to config file")
	if err := viper.BindPFlags(pf); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address of the HTTP API")
	serveCmd.Flags().String("refresh", "", "Cron schedule for refetching listings, e.g. '@every 15m' (empty disables)")
	serveCmd.Flags().String("cors-origins", "", "Comma-separated allowed origins (empty allows all)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Loan overrides for details are read directly; they are not config keys.
	detailsCmd.Flags().Float64("principal", 0, "Loan principal in INR (0 = 80% of the price)")
	detailsCmd.Flags().Float64("rate", 0, "Annual interest rate in percent (0 = default)")
	detailsCmd.Flags().Int("years", 0, "Loan tenure in years (0 = default)")

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
