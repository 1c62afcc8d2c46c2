package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// LocalSource reads a JSON file holding an array of listings or
// an object with a "properties" array.
type LocalSource struct {
	path string
}

var _ contract.RecordSource = &LocalSource{} // Compile-time check

// NewLocalSource creates a source for the JSON file at path.
func NewLocalSource(path string) *LocalSource {
	return &LocalSource{path: path}
}

// Kind implements contract.RecordSource.
func (s *LocalSource) Kind() schema.SourceKind { return schema.LocalSource }

// Fetch implements contract.RecordSource.
func (s *LocalSource) Fetch(_ context.Context) ([]schema.RawRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("local fetch failed: %w", err)
	}
	return decodeRecords(data, "properties")
}
