package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/parquet"
	"github.com/tharaga/propmatch/schema"
)

// PrintListings outputs a result page, dispatching based on the output format configured.
func PrintListings(page schema.ListingPage, cfg *contract.Config, sessionID string, duration time.Duration) error {
	offset := (page.Page - 1) * page.PageSize
	enriched := schema.EnrichProperties(page.Items, offset)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONListings(w, page)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVListings(w, enriched)
		}, "Wrote CSV")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTMLPage(w, "propmatch results", pageSummary(page), page.Items)
		}, "Wrote HTML")
	case schema.ParquetOut:
		rows := parquet.ConvertListings(enriched, sessionID, time.Now().UTC())
		if err := parquet.WriteListingsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeListingsTable(w, page, enriched, cfg, duration)
		}, "Wrote table")
	}
}

// writeListingsTable generates and writes the human-readable table.
func writeListingsTable(w io.Writer, page schema.ListingPage, items []schema.EnrichedProperty, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Title", "Location", "Price", "BHK", "Sqft", "Walk", "Match", "Label"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := GetMaxTableTitleWidth(cfg)
	var data [][]string
	for _, it := range items {
		walk := "-"
		if it.WalkMinutes != nil {
			walk = formatMinutes(*it.WalkMinutes)
		}
		data = append(data, []string{
			strconv.Itoa(it.Rank),
			contract.TruncateText(it.Title, titleWidth),
			contract.TruncateText(locationLine(it.Property), 20),
			priceText(it.Property),
			schema.FormatOptional(it.BHK, "-"),
			schema.FormatOptional(it.CarpetAreaSqft, "-"),
			walk,
			strconv.Itoa(it.MatchPercent) + "%",
			contract.GetColorLabel(it.MatchPercent),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, pageSummary(page)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Search completed in %v. Source: %s\n", duration.Round(time.Millisecond), sourceName(page.Source)); err != nil {
		return err
	}
	return nil
}

// writeJSONListings writes the page with rank and label added to each item.
func writeJSONListings(w io.Writer, page schema.ListingPage) error {
	return writeJSON(w, schema.NewResultPage(page))
}

// writeCSVListings writes one row per ranked listing.
func writeCSVListings(w io.Writer, items []schema.EnrichedProperty) error {
	header := []string{
		"rank",
		"id",
		"title",
		"city",
		"locality",
		"price_inr",
		"price_per_sqft_inr",
		"bhk",
		"carpet_area_sqft",
		"metro_km",
		"score",
		"match_percent",
		"label",
		"amenities",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, it := range items {
			rec := []string{
				strconv.Itoa(it.Rank),
				it.ID,
				it.Title,
				it.City,
				it.Locality,
				fmtOptional(it.PriceINR),
				fmtOptional(it.PricePerSqftINR),
				fmtOptional(it.BHK),
				fmtOptional(it.CarpetAreaSqft),
				fmtOptional(it.MetroKm),
				fmtScore(it.Score),
				strconv.Itoa(it.MatchPercent),
				it.Label,
				strings.Join(it.Amenities, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func pageSummary(page schema.ListingPage) string {
	return fmt.Sprintf("Showing page %d of %d (%d matching listings)", page.Page, page.Pages, page.Total)
}

func sourceName(kind schema.SourceKind) string {
	if kind == "" {
		return "none"
	}
	return string(kind)
}
