package outwriter

import (
	"bytes"
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/tharaga/propmatch/schema"
)

// cardView is the data a listing card template needs, already formatted.
type cardView struct {
	ID           string
	Title        string
	Image        string
	Badge        string
	MatchPercent int
	Location     string
	Price        string
	PerSqft      string
	Tags         []string
	WalkMinutes  int
	HasWalk      bool
	DetailsURL   string
	LeadID       string
}

var cardTemplate = template.Must(template.New("card").Parse(
	`<article class="card" data-prop-id="{{.ID}}">
  <div class="card-img">
    <img loading="lazy" src="{{.Image}}" alt="{{.Title}}">
    {{- if .Badge}}
    <div class="badge ribbon">{{.Badge}}</div>
    {{- end}}
    <div class="tag score">Match {{.MatchPercent}}%</div>
  </div>
  <div class="card-body">
    <div class="loc-loud">{{.Location}}</div>
    <div class="card-title">{{.Title}}</div>
    <div class="row">
      <div class="price-loud">{{.Price}}</div>
      {{- if .PerSqft}}
      <div class="pps">{{.PerSqft}}</div>
      {{- end}}
    </div>
    <div class="row tags">
      {{- range .Tags}}
      <span class="tag">{{.}}</span>
      {{- end}}
      {{- if .HasWalk}}
      <span class="tag walk">{{.WalkMinutes}} min walk to metro</span>
      {{- end}}
    </div>
    <div class="actions">
      <a class="btn" href="{{.DetailsURL}}">View details</a>
      <button class="btn" data-lead-id="{{.LeadID}}">Request details</button>
    </div>
  </div>
</article>
`))

var pageTemplate = template.Must(template.New("page").Parse(
	`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<p class="summary">{{.Summary}}</p>
<section id="results">
{{- range .Cards}}
{{.}}
{{- else}}
<div class="empty">No properties found</div>
{{- end}}
</section>
</body>
</html>
`))

// CardHTML renders one listing card. Every interpolated value is escaped.
func CardHTML(p schema.Property, score float64) string {
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, newCardView(p, score)); err != nil {
		return ""
	}
	return buf.String()
}

func newCardView(p schema.Property, score float64) cardView {
	v := cardView{
		ID:           p.ID,
		Title:        p.Title,
		Image:        schema.PlaceholderImage,
		Badge:        p.ListingStatus,
		MatchPercent: schema.MatchPercent(score),
		Location:     locationLine(p),
		Price:        priceText(p),
		DetailsURL:   "./details.html?id=" + url.QueryEscape(p.ID),
		LeadID:       url.QueryEscape(p.ID),
	}
	if len(p.Images) > 0 && p.Images[0] != "" {
		v.Image = p.Images[0]
	}
	if v.Badge == "" && p.IsVerified {
		v.Badge = schema.VerifiedStatus
	}
	if p.PricePerSqftINR != nil && *p.PricePerSqftINR > 0 {
		v.PerSqft = "₹" + schema.GroupIndian(*p.PricePerSqftINR) + "/sqft"
	}
	if p.BHK != nil && *p.BHK > 0 {
		v.Tags = append(v.Tags, schema.FormatOptional(p.BHK, "")+" BHK")
	}
	area := "-"
	if p.CarpetAreaSqft != nil && *p.CarpetAreaSqft > 0 {
		area = schema.FormatOptional(p.CarpetAreaSqft, "-")
	}
	v.Tags = append(v.Tags, area+" sqft")
	if p.Furnished != "" {
		v.Tags = append(v.Tags, p.Furnished)
	}
	if p.Facing != "" {
		v.Tags = append(v.Tags, "Facing "+p.Facing)
	}
	if m, ok := schema.WalkMinutes(p.MetroKm); ok {
		v.WalkMinutes, v.HasWalk = m, true
	}
	return v
}

// writeHTMLPage renders a full page of cards.
func writeHTMLPage(w io.Writer, title, summary string, items []schema.ScoredProperty) error {
	cards := make([]template.HTML, len(items))
	for i, it := range items {
		// CardHTML output is produced by html/template and already escaped.
		cards[i] = template.HTML(CardHTML(it.Property, it.Score)) //nolint:gosec
	}
	return pageTemplate.Execute(w, struct {
		Title   string
		Summary string
		Cards   []template.HTML
	}{title, summary, cards})
}

func locationLine(p schema.Property) string {
	switch {
	case p.Locality != "" && p.City != "":
		return p.Locality + ", " + p.City
	case p.City != "":
		return p.City
	default:
		return p.Locality
	}
}

func priceText(p schema.Property) string {
	switch {
	case p.PriceDisplay != "":
		return p.PriceDisplay
	case p.PriceINR != nil && *p.PriceINR != 0:
		return schema.FormatINR(*p.PriceINR)
	default:
		return "Price on request"
	}
}

func formatMinutes(m int) string {
	return strconv.Itoa(m) + " min"
}
