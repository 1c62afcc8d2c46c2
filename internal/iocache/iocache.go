// Package iocache holds the database-backed stores: the key/value store for
// score weights and the properties table read by the database source.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// CacheStoreManager manages the store instances of one process.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	weights      contract.CacheStore
	listings     contract.ListingsStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetWeightsStore returns the key/value store holding score weights.
func (mgr *CacheStoreManager) GetWeightsStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.weights
}

// GetListingsStore returns the properties table store.
func (mgr *CacheStoreManager) GetListingsStore() contract.ListingsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.listings
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName guards identifiers that are interpolated into SQL.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return fmt.Sprintf("`%s`", name)
	}
	return fmt.Sprintf("%q", name)
}

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// openDatabase opens and pings a connection. For SQLite an empty connStr
// means defaultPath.
func openDatabase(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = defaultPath
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w. %s", backend, err, connectionHint(backend))
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connectionHint(backend))
	}
	return db, nil
}

func connectionHint(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "Check connection format: user:password@tcp(host:port)/dbname"
	case schema.PostgreSQLBackend:
		return "Check connection format: host=localhost port=5432 user=postgres dbname=mydb"
	default:
		return "Ensure the directory is writable"
	}
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
