package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// SheetSource reads a CSV export, typically a published spreadsheet.
// The header row names the fields; missing cells read as "".
type SheetSource struct {
	location string
	client   *http.Client
}

var _ contract.RecordSource = &SheetSource{} // Compile-time check

// NewSheetSource creates a source for a CSV URL or file path.
func NewSheetSource(location string, timeout time.Duration) *SheetSource {
	return &SheetSource{location: location, client: newHTTPClient(timeout)}
}

// Kind implements contract.RecordSource.
func (s *SheetSource) Kind() schema.SourceKind { return schema.SheetSource }

// Fetch implements contract.RecordSource.
func (s *SheetSource) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	data, err := readLocation(ctx, s.client, s.location)
	if err != nil {
		return nil, fmt.Errorf("sheet fetch failed: %w", err)
	}
	return ParseCSV(data)
}

// ParseCSV turns CSV text into records keyed by the trimmed header names.
func ParseCSV(data []byte) ([]schema.RawRecord, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimSpace(data)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]schema.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(schema.RawRecord, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			rec[h] = cell
		}
		records = append(records, rec)
	}
	return records, nil
}
