package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// SupabaseSource reads the properties table through the Supabase REST API.
type SupabaseSource struct {
	baseURL string
	key     string
	limit   int
	client  *http.Client
}

var _ contract.RecordSource = &SupabaseSource{} // Compile-time check

// NewSupabaseSource creates a source for the project at baseURL.
func NewSupabaseSource(baseURL, key string, limit int, timeout time.Duration) *SupabaseSource {
	if limit <= 0 {
		limit = contract.DefaultFetchLimit
	}
	return &SupabaseSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		limit:   limit,
		client:  newHTTPClient(timeout),
	}
}

// Kind implements contract.RecordSource.
func (s *SupabaseSource) Kind() schema.SourceKind { return schema.SupabaseSource }

func (s *SupabaseSource) endpoint() string {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("limit", strconv.Itoa(s.limit))
	return s.baseURL + "/rest/v1/properties?" + q.Encode()
}

// Fetch implements contract.RecordSource.
func (s *SupabaseSource) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	header := http.Header{}
	if s.key != "" {
		header.Set("apikey", s.key)
		header.Set("Authorization", "Bearer "+s.key)
	}
	body, err := getBody(ctx, s.client, s.endpoint(), header)
	if err != nil {
		return nil, fmt.Errorf("supabase fetch failed: %w", err)
	}
	return decodeRecords(body, "")
}
