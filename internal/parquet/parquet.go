// Package parquet exports ranked listings to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/tharaga/propmatch/schema"
)

// ListingRow is one ranked listing in an export.
type ListingRow struct {
	// SessionID groups the rows written by one run
	SessionID string `parquet:"session_id,snappy"`

	// ExportedAt is when the ranking was produced
	ExportedAt time.Time `parquet:"exported_at,snappy"`

	Rank         int32   `parquet:"rank,snappy"`
	ID           string  `parquet:"id,snappy"`
	Title        string  `parquet:"title,snappy"`
	City         string  `parquet:"city,snappy"`
	Locality     string  `parquet:"locality,snappy"`
	Category     string  `parquet:"category,snappy"`
	Type         string  `parquet:"type,snappy"`
	Score        float64 `parquet:"score,snappy"`
	MatchPercent int32   `parquet:"match_percent,snappy"`
	Label        string  `parquet:"label,snappy"`

	// Optional numeric fields stay null when unknown
	BHK             *float64 `parquet:"bhk,optional,snappy"`
	CarpetAreaSqft  *float64 `parquet:"carpet_area_sqft,optional,snappy"`
	PriceINR        *float64 `parquet:"price_inr,optional,snappy"`
	PricePerSqftINR *float64 `parquet:"price_per_sqft_inr,optional,snappy"`
	MetroKm         *float64 `parquet:"metro_km,optional,snappy"`
	PostedAt        *string  `parquet:"posted_at,optional,snappy"`

	Amenities string `parquet:"amenities,snappy"`
}

// ConvertListings converts ranked listings into Parquet rows.
func ConvertListings(items []schema.EnrichedProperty, sessionID string, exportedAt time.Time) []ListingRow {
	result := make([]ListingRow, len(items))
	for i, it := range items {
		row := ListingRow{
			SessionID:       sessionID,
			ExportedAt:      exportedAt,
			Rank:            int32(it.Rank),
			ID:              it.ID,
			Title:           it.Title,
			City:            it.City,
			Locality:        it.Locality,
			Category:        it.Category,
			Type:            it.Type,
			Score:           it.Score,
			MatchPercent:    int32(it.MatchPercent),
			Label:           it.Label,
			BHK:             it.BHK,
			CarpetAreaSqft:  it.CarpetAreaSqft,
			PriceINR:        it.PriceINR,
			PricePerSqftINR: it.PricePerSqftINR,
			MetroKm:         it.MetroKm,
			Amenities:       strings.Join(it.Amenities, "|"),
		}
		if it.PostedAt != "" {
			posted := it.PostedAt
			row.PostedAt = &posted
		}
		result[i] = row
	}
	return result
}

// WriteListingsParquet writes listing rows to a Parquet file.
func WriteListingsParquet(data []ListingRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the ListingRow struct tags
	writer := parquet.NewGenericWriter[ListingRow](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
