package sources

import (
	"context"
	"fmt"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// DatabaseSource reads the properties table of the listings store.
type DatabaseSource struct {
	store contract.ListingsStore
	limit int
}

var _ contract.RecordSource = &DatabaseSource{} // Compile-time check

// NewDatabaseSource creates a source over store.
func NewDatabaseSource(store contract.ListingsStore, limit int) *DatabaseSource {
	if limit <= 0 {
		limit = contract.DefaultFetchLimit
	}
	return &DatabaseSource{store: store, limit: limit}
}

// Kind implements contract.RecordSource.
func (s *DatabaseSource) Kind() schema.SourceKind { return schema.DatabaseSource }

// Fetch implements contract.RecordSource.
func (s *DatabaseSource) Fetch(ctx context.Context) ([]schema.RawRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("listings store is not initialized")
	}
	records, err := s.store.Records(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("database fetch failed: %w", err)
	}
	return records, nil
}
