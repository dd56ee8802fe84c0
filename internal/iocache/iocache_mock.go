package iocache

import (
	"time"

	"github.com/huangsam/forecast/internal/contract"
	"github.com/huangsam/forecast/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startedAt time.Time, meta schema.RunMeta, configParams map[string]any) (int64, error) {
	args := m.Called(startedAt, meta, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordSamples implements the HistoryStore interface.
func (m *MockHistoryStore) RecordSamples(runID int64, samples []schema.Sample) error {
	args := m.Called(runID, samples)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, finishedAt time.Time, finalValue float64, sampleCount int) error {
	args := m.Called(runID, finishedAt, finalValue, sampleCount)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllSamples implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllSamples() ([]schema.SampleRecord, error) {
	args := m.Called()
	samples, _ := args.Get(0).([]schema.SampleRecord)
	return samples, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
