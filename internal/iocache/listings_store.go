package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

const (
	propertiesTable = "properties"
	migrationsTable = "schema_migrations"
)

// propertyColumns lists the properties table columns in insert order.
var propertyColumns = []string{
	"id", "title", "project", "builder", "summary", "category", "type",
	"listing_status", "is_verified", "furnished", "facing",
	"bhk", "bathrooms", "carpet_area_sqft", "floor", "floors_total",
	"price_inr", "price_display", "price_per_sqft_inr",
	"city", "locality", "state", "address", "lat", "lng",
	"images", "amenities", "rera", "docs_link",
	"owner_name", "owner_phone", "owner_whatsapp", "posted_at",
}

// ListingsStoreImpl reads and writes the properties table.
type ListingsStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.ListingsStore = &ListingsStoreImpl{} // Compile-time check

// NewListingsStore opens the properties database. The schema is not created
// until Migrate runs.
func NewListingsStore(backend schema.DatabaseBackend, connStr string) (contract.ListingsStore, error) {
	if backend == schema.NoneBackend {
		return &ListingsStoreImpl{backend: backend, connStr: connStr}, nil
	}
	db, err := openDatabase(backend, connStr, contract.GetListingsDBFilePath())
	if err != nil {
		return nil, err
	}
	return &ListingsStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// Migrate brings the properties schema to the latest version.
func (s *ListingsStoreImpl) Migrate() error {
	if s.backend == schema.NoneBackend {
		return nil
	}
	_, err := MigrateListings(s.backend, s.connStr, -1)
	return err
}

// Import upserts properties in one transaction. Listings without an id get a random one.
func (s *ListingsStoreImpl) Import(ctx context.Context, props []schema.Property) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("listings store is disabled")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.upsertQuery())
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	// Any failure rolls back the whole batch, so nothing counts as imported.
	for _, p := range props {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, propertyArgs(p)...); err != nil {
			return 0, fmt.Errorf("failed to import listing %q: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(props), nil
}

func (s *ListingsStoreImpl) upsertQuery() string {
	marks := make([]string, len(propertyColumns))
	for i := range marks {
		marks[i] = placeholder(s.backend, i+1)
	}
	cols := strings.Join(propertyColumns, ", ")
	values := strings.Join(marks, ", ")

	updates := make([]string, 0, len(propertyColumns)-1)
	switch s.backend {
	case schema.MySQLBackend:
		for _, c := range propertyColumns[1:] {
			updates = append(updates, fmt.Sprintf("%s = new.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			propertiesTable, cols, values, strings.Join(updates, ", "))
	case schema.PostgreSQLBackend:
		for _, c := range propertyColumns[1:] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
			propertiesTable, cols, values, strings.Join(updates, ", "))
	default:
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", propertiesTable, cols, values)
	}
}

// propertyArgs flattens a property in propertyColumns order.
func propertyArgs(p schema.Property) []any {
	return []any{
		p.ID, p.Title, p.Project, p.Builder, p.Summary, p.Category, p.Type,
		p.ListingStatus, p.IsVerified, p.Furnished, p.Facing,
		nullFloat(p.BHK), nullFloat(p.Bathrooms), nullFloat(p.CarpetAreaSqft), nullFloat(p.Floor), nullFloat(p.FloorsTotal),
		nullFloat(p.PriceINR), p.PriceDisplay, nullFloat(p.PricePerSqftINR),
		p.City, p.Locality, p.State, p.Address, nullFloat(p.Lat), nullFloat(p.Lng),
		jsonList(p.Images), jsonList(p.Amenities), p.Rera, p.DocsLink,
		p.Owner.Name, p.Owner.Phone, p.Owner.Whatsapp, p.PostedAt,
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// Records reads up to limit rows keyed by column name. Byte values become strings.
func (s *ListingsStoreImpl) Records(ctx context.Context, limit int) ([]schema.RawRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("listings store is disabled")
	}
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %s", propertiesTable, placeholder(s.backend, 1))
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []schema.RawRecord
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		rec := make(schema.RawRecord, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = values[i]
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return records, nil
}

// GetStatus returns status information about the properties table.
// A database that was never migrated reports version 0 and no rows.
func (s *ListingsStoreImpl) GetStatus() (schema.ListingsStatus, error) {
	status := schema.ListingsStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	var version int64
	row := s.db.QueryRow(fmt.Sprintf("SELECT version, dirty FROM %s LIMIT 1", migrationsTable))
	if err := row.Scan(&version, &status.Dirty); err != nil {
		return status, nil
	}
	status.Version = uint(version)

	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", propertiesTable)).Scan(&status.Rows); err != nil {
		return status, fmt.Errorf("failed to count properties: %w", err)
	}
	return status, nil
}

// Close closes the underlying DB connection.
func (s *ListingsStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
