// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteListings prints a result page using the configured output format.
func (ow *OutWriter) WriteListings(page schema.ListingPage, cfg *contract.Config, sessionID string, duration time.Duration) error {
	return PrintListings(page, cfg, sessionID, duration)
}

// WriteExplain prints a score breakdown using the configured output format.
func (ow *OutWriter) WriteExplain(p schema.Property, b schema.ScoreBreakdown, cfg *contract.Config) error {
	return PrintExplain(p, b, cfg)
}

// WriteDetails prints a listing detail view using the configured output format.
func (ow *OutWriter) WriteDetails(d schema.PropertyDetail, cfg *contract.Config) error {
	return PrintDetails(d, cfg)
}

// WriteWeights prints the active weights using the configured output format.
func (ow *OutWriter) WriteWeights(weights schema.ScoreWeights, cfg *contract.Config) error {
	return PrintWeights(weights, cfg)
}

// WriteProperties prints normalized listings using the configured output format.
func (ow *OutWriter) WriteProperties(props []schema.Property, cfg *contract.Config) error {
	return PrintProperties(props, cfg)
}

// WriteStationMatch prints a nearest-station lookup using the configured output format.
func (ow *OutWriter) WriteStationMatch(m schema.StationMatch, cfg *contract.Config) error {
	return PrintStationMatch(m, cfg)
}

// WriteStoreStatus prints the weights store status.
func (ow *OutWriter) WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	return PrintStoreStatus(status, cfg)
}

// WriteListingsStatus prints the properties table status.
func (ow *OutWriter) WriteListingsStatus(status schema.ListingsStatus, cfg *contract.Config) error {
	return PrintListingsStatus(status, cfg)
}
