// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/tharaga/propmatch/schema"
)

// CacheManager defines the interface for managing stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetWeightsStore() CacheStore
	GetListingsStore() ListingsStore
}

// CacheStore defines the interface for key/value storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.StoreStatus, error)
	Close() error
}

// RecordSource fetches raw listing records from one upstream.
type RecordSource interface {
	// Kind identifies the source in logs and results.
	Kind() schema.SourceKind

	// Fetch returns the records currently offered by the source.
	Fetch(ctx context.Context) ([]schema.RawRecord, error)
}

// RecordLoader yields raw records from the first source that has any.
// Failures are absorbed: an empty result means every source came up dry.
type RecordLoader interface {
	Load(ctx context.Context) ([]schema.RawRecord, schema.SourceKind)
}

// StationSource fetches the transit station list.
type StationSource interface {
	FetchStations(ctx context.Context) ([]schema.Station, error)
}

// ListingsStore manages the properties table read by the database source.
type ListingsStore interface {
	// Migrate brings the properties schema to the latest version.
	Migrate() error

	// Import upserts normalized properties and returns how many were written.
	Import(ctx context.Context, props []schema.Property) (int, error)

	// Records reads up to limit rows keyed by column name.
	Records(ctx context.Context, limit int) ([]schema.RawRecord, error)

	// GetStatus returns status information about the properties table.
	GetStatus() (schema.ListingsStatus, error)

	// Close closes the underlying connection.
	Close() error
}
