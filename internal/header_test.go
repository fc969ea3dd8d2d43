package internal

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/assert"
)

// captureHeaders redirects header output for the duration of a test.
func captureHeaders(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := headerWriter
	headerWriter = &buf
	t.Cleanup(func() { headerWriter = prev })
	return &buf
}

func TestLogBuildHeader(t *testing.T) {
	buf := captureHeaders(t)
	LogBuildHeader("/data/exports/grades.csv", schema.CSVInput)
	assert.Equal(t, "🔎 Input: grades.csv (Format: csv)\n", buf.String())
}

func TestLogBuildSummary(t *testing.T) {
	buf := captureHeaders(t)
	stats := schema.RunStats{RowsRead: 10, RowsSkipped: 2, Groups: 4, BelowThreshold: 1, Duplicates: 1, Emitted: 2}
	LogBuildSummary(stats, 1500*time.Microsecond)

	out := buf.String()
	assert.Contains(t, out, "10 read, 2 skipped → 4 groups")
	assert.Contains(t, out, "Published 2 courses in 2ms")
}

func TestLogQueryHeader(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		buf := captureHeaders(t)
		LogQueryHeader("courses.json", schema.QueryOptions{})
		assert.Equal(t, "🔎 Data: courses.json (Subject: All)\n", buf.String())
	})

	t.Run("with search", func(t *testing.T) {
		buf := captureHeaders(t)
		LogQueryHeader("out/courses.json", schema.QueryOptions{Subject: "CSCI", Search: "intro", MinGPA: 3})
		assert.Contains(t, buf.String(), "(Subject: CSCI)")
		assert.Contains(t, buf.String(), `Search: "intro", min GPA 3.00`)
	})
}
