package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// weightsTable is the name of the key/value table holding weights.
const weightsTable = "propmatch_store"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global manager with the weights and listings stores.
// An empty backend leaves the matching store unset.
func InitStores(storeBackend schema.DatabaseBackend, storeConnStr string, listingsBackend schema.DatabaseBackend, listingsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var weights contract.CacheStore
		if storeBackend != "" {
			weights, err = NewCacheStore(weightsTable, storeBackend, storeConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize weights store: %w", err)
				return
			}
		}

		var listings contract.ListingsStore
		if listingsBackend != "" {
			listings, err = NewListingsStore(listingsBackend, listingsConnStr)
			if err != nil {
				if weights != nil {
					_ = weights.Close()
				}
				initErr = fmt.Errorf("failed to initialize listings store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.weights = weights
		Manager.listings = listings
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.weights != nil {
			_ = Manager.weights.Close()
		}
		if Manager.listings != nil {
			_ = Manager.listings.Close()
		}
	})
}

// ClearStore clears the weights store for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		return clearSQLTable(driverName, connStr, quoteTableName(weightsTable, backend))

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
