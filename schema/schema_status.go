package schema

import "time"

// StoreStatus represents the status of the key/value store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// ListingsStatus describes the properties table used by the database source.
type ListingsStatus struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	Version   uint   `json:"version"`
	Dirty     bool   `json:"dirty"`
	Rows      int64  `json:"rows"`
}
