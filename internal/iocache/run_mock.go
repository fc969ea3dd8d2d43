package iocache

import (
	"time"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startTime time.Time, inputPath string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, inputPath, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordSummary implements the RunStore interface.
func (m *MockRunStore) RecordSummary(runID int64, summary schema.CourseSummary) error {
	args := m.Called(runID, summary)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, stats schema.RunStats) error {
	args := m.Called(runID, endTime, stats)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllCourseResults implements the RunStore interface.
func (m *MockRunStore) GetAllCourseResults() ([]schema.CourseRunRecord, error) {
	args := m.Called()
	results, _ := args.Get(0).([]schema.CourseRunRecord)
	return results, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
