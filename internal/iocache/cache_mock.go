package iocache

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetWeightsStore implements the CacheManager interface.
func (m *MockCacheManager) GetWeightsStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetListingsStore implements the CacheManager interface.
func (m *MockCacheManager) GetListingsStore() contract.ListingsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ListingsStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Delete implements the CacheStore interface.
func (m *MockCacheStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// MockListingsStore is a mock implementation of ListingsStore for testing.
type MockListingsStore struct {
	mock.Mock
}

var _ contract.ListingsStore = &MockListingsStore{} // Compile-time check

// Migrate implements the ListingsStore interface.
func (m *MockListingsStore) Migrate() error {
	args := m.Called()
	return args.Error(0)
}

// Import implements the ListingsStore interface.
func (m *MockListingsStore) Import(ctx context.Context, props []schema.Property) (int, error) {
	args := m.Called(ctx, props)
	return args.Int(0), args.Error(1)
}

// Records implements the ListingsStore interface.
func (m *MockListingsStore) Records(ctx context.Context, limit int) ([]schema.RawRecord, error) {
	args := m.Called(ctx, limit)
	records, _ := args.Get(0).([]schema.RawRecord)
	return records, args.Error(1)
}

// GetStatus implements the ListingsStore interface.
func (m *MockListingsStore) GetStatus() (schema.ListingsStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ListingsStatus), args.Error(1)
}

// Close implements the ListingsStore interface.
func (m *MockListingsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
