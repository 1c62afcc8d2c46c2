// Package sources fetches raw listing and station records from the
// configured upstreams.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 32 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = contract.DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getBody performs a GET and returns the body of a 2xx response.
func getBody(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

// readLocation loads a URL or a local file.
func readLocation(ctx context.Context, client *http.Client, location string) ([]byte, error) {
	if contract.IsURL(location) {
		return getBody(ctx, client, location, nil)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}
	return data, nil
}

func truncateBody(body []byte) string {
	return contract.TruncateText(string(body), 200)
}

// decodeRecords accepts a bare JSON array or an object wrapping one under key.
func decodeRecords(data []byte, key string) ([]schema.RawRecord, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var list []any
	switch t := payload.(type) {
	case []any:
		list = t
	case map[string]any:
		if key != "" {
			list, _ = t[key].([]any)
		}
	}

	records := make([]schema.RawRecord, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, schema.RawRecord(obj))
		}
	}
	return records, nil
}
