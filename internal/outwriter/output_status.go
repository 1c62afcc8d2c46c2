package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// PrintProperties writes normalized listings, as produced by the normalize command.
func PrintProperties(props []schema.Property, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"id", "title", "category", "type", "city", "locality", "bhk", "carpet_area_sqft", "price_inr", "price_per_sqft_inr", "lat", "lng", "posted_at"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, p := range props {
					rec := []string{
						p.ID, p.Title, p.Category, p.Type, p.City, p.Locality,
						fmtOptional(p.BHK), fmtOptional(p.CarpetAreaSqft),
						fmtOptional(p.PriceINR), fmtOptional(p.PricePerSqftINR),
						fmtOptional(p.Lat), fmtOptional(p.Lng), p.PostedAt,
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"ID", "Title", "Location", "Price", "Price/sqft"})
			var data [][]string
			for _, p := range props {
				data = append(data, []string{
					p.ID,
					contract.TruncateText(p.Title, GetMaxTableTitleWidth(cfg)),
					locationLine(p),
					priceText(p),
					schema.FormatOptional(p.PricePerSqftINR, "-"),
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Normalized %d listings\n", len(props))
			return err
		}, "Wrote table")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, props)
		}, "Wrote JSON")
	}
}

// PrintStoreStatus shows the weights store status.
func PrintStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		var b strings.Builder
		b.WriteString("🗄️  Weights store\n")
		fmt.Fprintf(&b, "   Backend:   %s\n", status.Backend)
		fmt.Fprintf(&b, "   Connected: %s\n", yesNo(status.Connected))
		fmt.Fprintf(&b, "   Entries:   %d\n", status.TotalEntries)
		if !status.LastEntryTime.IsZero() {
			fmt.Fprintf(&b, "   Last write: %s\n", status.LastEntryTime.Format(contract.DateTimeFormat))
		}
		if status.TableSizeBytes > 0 {
			fmt.Fprintf(&b, "   Size:      %d bytes\n", status.TableSizeBytes)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}, "Wrote text")
}

// PrintListingsStatus shows the properties table status.
func PrintListingsStatus(status schema.ListingsStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		var b strings.Builder
		b.WriteString("🗄️  Listings database\n")
		fmt.Fprintf(&b, "   Backend:   %s\n", status.Backend)
		fmt.Fprintf(&b, "   Connected: %s\n", yesNo(status.Connected))
		dirty := ""
		if status.Dirty {
			dirty = " (dirty)"
		}
		fmt.Fprintf(&b, "   Schema:    v%d%s\n", status.Version, dirty)
		fmt.Fprintf(&b, "   Rows:      %d\n", status.Rows)
		_, err := io.WriteString(w, b.String())
		return err
	}, "Wrote text")
}

// PrintStationMatch shows the closest station to a coordinate.
func PrintStationMatch(m schema.StationMatch, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, m)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"name", "line", "lat", "lng", "distance_km", "walk_minutes"}, func(cw *csv.Writer) error {
				return cw.Write([]string{
					m.Station.Name,
					m.Station.Line,
					strconv.FormatFloat(m.Station.Lat, 'f', -1, 64),
					strconv.FormatFloat(m.Station.Lng, 'f', -1, 64),
					strconv.FormatFloat(m.DistanceKm, 'f', 3, 64),
					strconv.Itoa(m.WalkMinutes),
				})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "🚇 %s: %.2f km, about %s walk\n", stationName(m.Station), m.DistanceKm, formatMinutes(m.WalkMinutes))
			return err
		}, "Wrote text")
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
