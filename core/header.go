package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// headerWriter is where run headers go. Results own stdout.
var headerWriter io.Writer = os.Stderr

// logSearchHeader prints a concise, 2-line header for a search run.
// Headers only accompany text output.
func logSearchHeader(ctx context.Context, cfg *contract.Config, kinds []schema.SourceKind) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut {
		return
	}
	query := cfg.Query
	if query == "" {
		query = "(any)"
	}

	// Line 1: what is being searched
	_, _ = fmt.Fprintf(headerWriter, "🔎 Query: %s (Sort: %s, Page: %d)\n", query, cfg.Sort, cfg.Page)

	// Line 2: where listings come from
	_, _ = fmt.Fprintf(headerWriter, "🏙  Sources: %s\n", joinKinds(kinds))
}

func joinKinds(kinds []schema.SourceKind) string {
	if len(kinds) == 0 {
		return "none configured"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, " → ")
}
