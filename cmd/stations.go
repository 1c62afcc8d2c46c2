package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Query the transit station list",
}

// stationsNearestCmd finds the closest station to a coordinate.
var stationsNearestCmd = &cobra.Command{
	Use:   "nearest <lat> <lng>",
	Short: "Find the closest station to a coordinate",
	Long: `Find the station closest to a latitude/longitude pair and the walking time to it.

Requires --stations (URL or path of the station list). Put -- before
negative coordinates so they are not read as flags.

Examples:
  propmatch stations nearest 13.0067 80.2206 --stations stations.json`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		lat, lng, err := parseCoordinate(args[0], args[1])
		if err != nil {
			contract.LogFatal("Invalid coordinate", err)
		}
		if err := core.ExecuteNearest(rootCtx, cfg, lat, lng); err != nil {
			contract.LogFatal("Cannot find nearest station", err)
		}
	},
}

func parseCoordinate(latStr, lngStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude must be a number between -90 and 90 (received %s)", latStr)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("longitude must be a number between -180 and 180 (received %s)", lngStr)
	}
	return lat, lng, nil
}
