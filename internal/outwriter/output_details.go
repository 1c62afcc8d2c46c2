package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// PrintDetails shows the full detail view of one listing.
func PrintDetails(d schema.PropertyDetail, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, d)
		}, "Wrote JSON")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			similar := make([]schema.ScoredProperty, 0, len(d.Similar)+1)
			similar = append(similar, d.ScoredProperty)
			for _, p := range d.Similar {
				similar = append(similar, schema.NewScoredProperty(p, 0))
			}
			return writeHTMLPage(w, d.Title, d.SmartSummary, similar)
		}, "Wrote HTML")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDetailsText(w, d)
		}, "Wrote text")
	}
}

func writeDetailsText(w io.Writer, d schema.PropertyDetail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "🏠 %s\n", d.Title)
	fmt.Fprintf(&b, "   %s\n", locationLine(d.Property))
	fmt.Fprintf(&b, "   Price: %s", priceText(d.Property))
	if d.PricePerSqftINR != nil && *d.PricePerSqftINR > 0 {
		fmt.Fprintf(&b, " (₹%s/sqft)", schema.GroupIndian(*d.PricePerSqftINR))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "   Match: %d%% (%s)\n", d.MatchPercent, contract.GetColorLabel(d.MatchPercent))
	if d.SmartSummary != "" {
		fmt.Fprintf(&b, "   %s\n", d.SmartSummary)
	}
	if d.NearestStation != nil {
		fmt.Fprintf(&b, "   Nearest station: %s", stationName(*d.NearestStation))
		if d.WalkMinutes != nil {
			fmt.Fprintf(&b, " (%s walk)", formatMinutes(*d.WalkMinutes))
		}
		b.WriteString("\n")
	}
	if d.EMI != nil {
		fmt.Fprintf(&b, "   Estimated EMI: %s/month\n", schema.FormatINR(*d.EMI))
	}
	owner := d.Owner.Name
	if owner == "" {
		owner = schema.DefaultOwnerName
	}
	fmt.Fprintf(&b, "   Contact: %s", owner)
	if d.Owner.Phone != "" {
		fmt.Fprintf(&b, " %s", d.Owner.Phone)
	}
	b.WriteString("\n")
	if d.Rera != "" {
		fmt.Fprintf(&b, "   RERA: %s\n", d.Rera)
	}
	if len(d.Similar) > 0 {
		b.WriteString("Similar listings:\n")
		for _, p := range d.Similar {
			fmt.Fprintf(&b, "   - %s (%s) %s\n", p.Title, locationLine(p), priceText(p))
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return writeExplainTable(w, d.Property, d.Breakdown)
}

func stationName(s schema.Station) string {
	switch {
	case s.Name != "" && s.Line != "":
		return s.Name + " (" + s.Line + ")"
	case s.Name != "":
		return s.Name
	default:
		return fmt.Sprintf("%.5f, %.5f", s.Lat, s.Lng)
	}
}
