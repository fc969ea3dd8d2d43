package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary(id, code string, students int) schema.CourseSummary {
	return schema.CourseSummary{
		ID:            id,
		Code:          code,
		Instructor:    "Smith",
		TotalStudents: students,
		Semesters:     []string{"Fall 2023", "Spring 2024"},
		GPA:           "3.25",
		MedianGPA:     "3.33",
		StdDev:        "0.50",
	}
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	// BeginRun should return 0 for NoneBackend
	runID, err := store.BeginRun(time.Now(), "grades.csv", map[string]any{"test": "value"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	// Other operations should not error
	assert.NoError(t, store.RecordSummary(1, testSummary("a", "CSCI 112", 10)))
	assert.NoError(t, store.EndRun(1, time.Now(), schema.RunStats{}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	assert.NoError(t, store.Close())
}

func TestRunStore_SQLite(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	startTime := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	runID, err := store.BeginRun(startTime, "grades.csv", map[string]any{"input_format": "csv"})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, store.RecordSummary(runID, testSummary("CSCI-112-Smith", "CSCI 112", 40)))
	require.NoError(t, store.RecordSummary(runID, testSummary("MATH-201-Smith", "MATH 201", 12)))

	stats := schema.RunStats{RowsRead: 50, RowsSkipped: 2, Groups: 5, BelowThreshold: 2, Duplicates: 1, Emitted: 2}
	require.NoError(t, store.EndRun(runID, startTime.Add(2*time.Second), stats))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, startTime.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(2000), *run.RunDurationMs)
	assert.Equal(t, "grades.csv", run.InputPath)
	assert.Equal(t, int32(50), run.RowsRead)
	assert.Equal(t, int32(2), run.RowsSkipped)
	assert.Equal(t, int32(5), run.GroupCount)
	assert.Equal(t, int32(2), run.SummaryCount)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"input_format":"csv"}`, *run.ConfigParams)

	results, err := store.GetAllCourseResults()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "CSCI-112-Smith", results[0].CourseID)
	assert.Equal(t, int32(40), results[0].TotalStudents)
	assert.Equal(t, int32(2), results[0].SemesterCount)
	assert.InDelta(t, 3.25, results[0].GPA, 0.001)
	assert.InDelta(t, 3.33, results[0].MedianGPA, 0.001)
	assert.InDelta(t, 0.5, results[0].StdDev, 0.001)
}

func TestRunStore_DuplicateSummary(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), "grades.csv", nil)
	require.NoError(t, err)

	summary := testSummary("CSCI-112-Smith", "CSCI 112", 40)
	require.NoError(t, store.RecordSummary(runID, summary))
	assert.Error(t, store.RecordSummary(runID, summary), "course id is unique within a run")
}

func TestRunStore_UnfinishedRun(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = store.BeginRun(time.Now(), "grades.csv", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(0), runs[0].SummaryCount)
}

func TestRunStore_EndRunMissing(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	err = store.EndRun(42, time.Now(), schema.RunStats{})
	assert.ErrorContains(t, err, "failed to get start_time for run 42")
}

func TestRunStore_GetStatus(t *testing.T) {
	store, err := NewRunStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		start := first.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginRun(start, "grades.csv", nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordSummary(runID, testSummary("CSCI-112-Smith", "CSCI 112", 10)))
		require.NoError(t, store.EndRun(runID, start.Add(time.Second), schema.RunStats{Emitted: 1}))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, int64(3), status.LastRunID)
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.True(t, first.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.Equal(t, 3, status.TotalSummaries)
	assert.Equal(t, int64(3), status.TableSizes[runsTable])
	assert.Equal(t, int64(3), status.TableSizes[courseResultsTable])
	assert.Greater(t, status.DatabaseSizeKiB, int64(0))
}

func TestNewRunStoreErrors(t *testing.T) {
	_, err := NewRunStore("oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestRunStoreCloseNil(t *testing.T) {
	store := &RunStoreImpl{backend: schema.SQLiteBackend}
	assert.NoError(t, store.Close())
}

func TestPlaceholders(t *testing.T) {
	pg := &RunStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, []any{"$1", "$2", "$3"}, pg.placeholders(3))

	my := &RunStoreImpl{backend: schema.MySQLBackend}
	assert.Equal(t, []any{"?", "?"}, my.placeholders(2))
}

func TestGetCreateQueries(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains []string
	}{
		{schema.SQLiteBackend, []string{`"gradestat_runs"`, "AUTOINCREMENT"}},
		{schema.MySQLBackend, []string{"`gradestat_runs`", "AUTO_INCREMENT", "DATETIME(6)"}},
		{schema.PostgreSQLBackend, []string{`"gradestat_runs"`, "BIGSERIAL", "TIMESTAMPTZ"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			query := getCreateRunsQuery(tt.backend)
			for _, want := range tt.contains {
				assert.Contains(t, query, want)
			}
			assert.Contains(t, getCreateCourseResultsQuery(tt.backend), "PRIMARY KEY (run_id, course_id)")
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 3, 4, 5, 6, 7, 8, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-03-04T04:06:07.000000008Z", formatTime(ts, schema.SQLiteBackend))
	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}
