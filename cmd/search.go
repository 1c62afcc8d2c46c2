package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
)

// searchCmd ranks listings against the query and filters.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Show one page of listings ranked by match score.",
	Long: `Load listings from the first source that answers, filter them and rank them.

Sources are tried in order (api, supabase, database, sheet, local by default);
a source that fails or returns nothing hands over to the next one.

Each listing is scored on five components (text, recency, value, amenity,
metro) weighted by the stored weights. The match percentage shown is the
score out of 30.

Examples:
  # 2 BHK flats in Chennai near a metro station
  propmatch search --local listings.json --cities Chennai --bhk 2 --want-metro

  # Cheapest rentals first, second page
  propmatch search --mode rent --sort priceLow --page 2

  # Export ranked results for a spreadsheet
  propmatch search -q "sea view" --output csv --output-file results.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSearch(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run search", err)
		}
	},
}

// explainCmd shows the score breakdown of one listing.
var explainCmd = &cobra.Command{
	Use:   "explain <id>",
	Short: "Show how a listing's match score is built.",
	Long: `Print every score component of a listing next to its weight.

The text and amenity components use --query and --amenity.

Examples:
  propmatch explain p-102 --query "lake view" --amenity Gym`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExplain(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot explain listing", err)
		}
	},
}

// detailsCmd shows the detail view of one listing.
var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show a listing with summary, EMI, nearest station and similar listings.",
	Long: `Print the full detail view of one listing.

The EMI defaults to a loan of 80% of the price; override it with
--principal, --rate and --years.

Examples:
  propmatch details p-102
  propmatch details p-102 --rate 8.5 --years 15 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		principal, _ := cmd.Flags().GetFloat64("principal")
		rate, _ := cmd.Flags().GetFloat64("rate")
		years, _ := cmd.Flags().GetInt("years")
		loan := core.EMIRequest{Principal: principal, RatePct: rate, Years: years}
		if err := core.ExecuteDetails(rootCtx, cfg, cacheManager, args[0], loan); err != nil {
			contract.LogFatal("Cannot show listing", err)
		}
	},
}

// normalizeCmd normalizes a file of raw records.
var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Normalize a JSON or CSV file of raw listings.",
	Long: `Read raw records from a JSON file (array or {"properties": [...]}) or a CSV
export and print them in the canonical listing shape.

Transit distances are attached when --stations is set.

Examples:
  propmatch normalize sheet.csv --output json --output-file listings.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteNormalize(rootCtx, cfg, args[0]); err != nil {
			contract.LogFatal("Cannot normalize records", err)
		}
	},
}
