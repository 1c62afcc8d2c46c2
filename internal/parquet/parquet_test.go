package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/schema"
)

func sampleListings() []schema.EnrichedProperty {
	items := []schema.ScoredProperty{
		schema.NewScoredProperty(schema.Property{
			ID:             "p1",
			Title:          "Sunrise Residency",
			City:           "Chennai",
			Locality:       "Tambaram",
			Category:       "buy",
			Type:           "Apartment",
			BHK:            schema.Float(2),
			CarpetAreaSqft: schema.Float(1000),
			PriceINR:       schema.Float(5_000_000),
			MetroKm:        schema.Float(0.5),
			PostedAt:       "2025-02-20",
			Amenities:      []string{"Gym", "Lift"},
		}, 24.5),
		schema.NewScoredProperty(schema.Property{
			ID:    "p2",
			Title: "Plot near OMR",
			City:  "Chennai",
		}, 6),
	}
	return schema.EnrichProperties(items, 0)
}

func TestListingRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(ListingRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"session_id",
		"exported_at",
		"rank",
		"id",
		"title",
		"score",
		"match_percent",
		"label",
		"bhk",
		"price_inr",
		"metro_km",
		"posted_at",
		"amenities",
	}
	for _, colName := range expectedColumns {
		_, ok := sch.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertListings(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := ConvertListings(sampleListings(), "session-1", now)
	require.Len(t, rows, 2)

	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "session-1", rows[0].SessionID)
	assert.Equal(t, "Gym|Lift", rows[0].Amenities)
	require.NotNil(t, rows[0].PostedAt)
	assert.Equal(t, "2025-02-20", *rows[0].PostedAt)
	assert.Equal(t, int32(82), rows[0].MatchPercent)

	assert.Equal(t, int32(2), rows[1].Rank)
	assert.Nil(t, rows[1].PostedAt)
	assert.Nil(t, rows[1].PriceINR)
	assert.Equal(t, schema.WeakValue, rows[1].Label)
}

func TestWriteListingsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "listings.parquet")
	data := ConvertListings(sampleListings(), "session-1", time.Now().UTC())

	require.NoError(t, WriteListingsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ListingRow](file)
	defer reader.Close()

	readData := make([]ListingRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	assert.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].ID, readData[i].ID)
		assert.Equal(t, data[i].Rank, readData[i].Rank)
		assert.InDelta(t, data[i].Score, readData[i].Score, 0.001)
		if data[i].PriceINR == nil {
			assert.Nil(t, readData[i].PriceINR)
		} else {
			require.NotNil(t, readData[i].PriceINR)
			assert.InDelta(t, *data[i].PriceINR, *readData[i].PriceINR, 0.5)
		}
	}
}

func TestWriteListingsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteListingsParquet([]ListingRow{}, outputPath))
	_, err := os.Stat(outputPath)
	assert.NoError(t, err)
}

func TestWriteListingsParquet_BadPath(t *testing.T) {
	err := WriteListingsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
	assert.Error(t, err)
}
