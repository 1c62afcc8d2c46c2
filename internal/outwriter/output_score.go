package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// componentNames maps breakdown keys to the names shown to users.
var componentNames = map[schema.BreakdownKey]string{
	schema.BreakdownText:    "Text match",
	schema.BreakdownRecency: "Recency",
	schema.BreakdownValue:   "Value (price/sqft)",
	schema.BreakdownAmenity: "Amenity",
	schema.BreakdownMetro:   "Metro proximity",
}

// explainRow is one component line of a score explanation.
type explainRow struct {
	Key      schema.BreakdownKey `json:"key"`
	Name     string              `json:"name"`
	Score    float64             `json:"score"`
	Weight   float64             `json:"weight"`
	Weighted float64             `json:"weighted"`
}

func buildExplainRows(b schema.ScoreBreakdown) []explainRow {
	scores := b.Components.AsMap()
	weights := b.Weights.AsMap()
	rows := make([]explainRow, 0, len(schema.AllBreakdownKeys))
	for _, k := range schema.AllBreakdownKeys {
		rows = append(rows, explainRow{
			Key:      k,
			Name:     componentNames[k],
			Score:    scores[k],
			Weight:   weights[k],
			Weighted: scores[k] * weights[k],
		})
	}
	return rows
}

// PrintExplain shows how a listing's score was built.
func PrintExplain(p schema.Property, b schema.ScoreBreakdown, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				ID           string                `json:"id"`
				Title        string                `json:"title"`
				MatchPercent int                   `json:"matchPercent"`
				Breakdown    schema.ScoreBreakdown `json:"breakdown"`
			}{p.ID, p.Title, schema.MatchPercent(b.Total), b})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVExplain(w, b)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplainTable(w, p, b)
		}, "Wrote table")
	}
}

func writeExplainTable(w io.Writer, p schema.Property, b schema.ScoreBreakdown) error {
	if _, err := fmt.Fprintf(w, "🏠 %s (%s)\n", p.Title, p.ID); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Component", "Score", "Weight", "Weighted"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, r := range buildExplainRows(b) {
		data = append(data, []string{r.Name, fmtScore(r.Score), fmtScore(r.Weight), fmtScore(r.Weighted)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	pct := schema.MatchPercent(b.Total)
	_, err := fmt.Fprintf(w, "Total: %s, Match %d%% (%s)\n", fmtScore(b.Total), pct, contract.GetColorLabel(pct))
	return err
}

func writeCSVExplain(w io.Writer, b schema.ScoreBreakdown) error {
	return writeCSVWithHeader(w, []string{"component", "score", "weight", "weighted"}, func(cw *csv.Writer) error {
		for _, r := range buildExplainRows(b) {
			if err := cw.Write([]string{string(r.Key), fmtScore(r.Score), fmtScore(r.Weight), fmtScore(r.Weighted)}); err != nil {
				return err
			}
		}
		return cw.Write([]string{"total", fmtScore(b.Total), "", fmtScore(b.Total)})
	})
}

// PrintWeights shows the active score weights.
func PrintWeights(weights schema.ScoreWeights, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, weights)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"component", "weight"}, func(cw *csv.Writer) error {
				m := weights.AsMap()
				for _, k := range schema.AllBreakdownKeys {
					if err := cw.Write([]string{string(k), fmtScore(m[k])}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, weights)
		}, "Wrote text")
	}
}

func writeWeightsText(w io.Writer, weights schema.ScoreWeights) error {
	if _, err := fmt.Fprintln(w, "⚖️  Score weights"); err != nil {
		return err
	}
	m := weights.AsMap()
	defaults := schema.DefaultWeights().AsMap()
	for _, k := range schema.AllBreakdownKeys {
		marker := ""
		if m[k] != defaults[k] {
			marker = fmt.Sprintf(" (default %s)", fmtScore(defaults[k]))
		}
		if _, err := fmt.Fprintf(w, "   %-20s %s%s\n", componentNames[k], fmtScore(m[k]), marker); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Score = %.2f*text + %.2f*recency + %.2f*value + %.2f*amenity + %.2f*metro\n",
		weights.Text, weights.Recency, weights.Value, weights.Amenity, weights.Metro)
	return err
}
