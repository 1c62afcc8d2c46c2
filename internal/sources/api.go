package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// APISource reads a JSON array of listings from a backend endpoint.
type APISource struct {
	url    string
	client *http.Client
}

var _ contract.RecordSource = &APISource{} // Compile-time check

// NewAPISource creates a source for the listing endpoint at url.
func NewAPISource(url string, timeout time.Duration) *APISource {
	return &APISource{url: url, client: newHTTPClient(timeout)}
}

// Kind implements contract.RecordSource.
func (s *APISource) Kind() schema.SourceKind { return schema.APISource }

// Fetch implements contract.RecordSource. Anything other than a JSON array
// counts as no data.
func (s *APISource) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	body, err := getBody(ctx, s.client, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("api fetch failed: %w", err)
	}
	return decodeRecords(body, "")
}
