package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/gradestat/internal/contract"
	gsparquet "github.com/huangsam/gradestat/internal/parquet"
	"github.com/huangsam/gradestat/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourses() []schema.CourseSummary {
	var intro, calc schema.GradeHistogram
	intro[0], intro[1], intro[10] = 5, 3, 2
	calc[4], calc[7] = 6, 4
	return []schema.CourseSummary{
		{
			ID: "CSCI-112-Smith", Subject: "CSCI", CourseNumber: "112", Code: "CSCI 112",
			Title: "Intro to Programming", Instructor: "Smith", CRN: "1001", TotalStudents: 10,
			Grades: intro, Semesters: []string{"Fall 2023", "Spring 2024"},
			GPA: "3.20", StdDev: "1.60", MedianGPA: "4.00",
		},
		{
			ID: "MATH-201-Lee", Subject: "MATH", CourseNumber: "201", Code: "MATH 201",
			Title: "Calculus, II", Instructor: "Lee", CRN: "2002", TotalStudents: 10,
			Grades: calc, Semesters: []string{"Fall 2023"},
			GPA: "2.60", StdDev: "0.49", MedianGPA: "3.00",
		},
	}
}

func TestWriteSummariesJSON(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, WriteSummaries(testCourses(), &contract.Config{Output: schema.JSONOut}))

	var decoded []schema.CourseSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, testCourses(), decoded)
	assert.Contains(t, out.String(), `"medianGpa": "4.00"`)
}

func TestWriteSummariesEmpty(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, WriteSummaries(nil, &contract.Config{Output: schema.JSONOut}))
	assert.Equal(t, "[]\n", out.String())
}

func TestWriteSummariesCSV(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, WriteSummaries(testCourses(), &contract.Config{Output: schema.CSVOut}))

	records, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "id", header[0])
	assert.Equal(t, "A+", header[len(courseCSVHeader)])
	assert.Equal(t, "F", header[len(header)-1])

	assert.Equal(t, "Fall 2023|Spring 2024", records[1][8])
	assert.Equal(t, "Moderate", records[1][12])
	assert.Equal(t, "5", records[1][len(courseCSVHeader)])
	assert.Equal(t, "Calculus, II", records[2][4])
	assert.Equal(t, "Low", records[2][12])
}

func TestWriteSummariesText(t *testing.T) {
	out, _ := captureOutput(t)

	cfg := &contract.Config{Output: schema.TextOut, Width: 120}
	require.NoError(t, WriteSummaries(testCourses(), cfg))

	text := out.String()
	assert.Contains(t, text, "CSCI 112")
	assert.Contains(t, text, "Intro to Programming")
	assert.Contains(t, text, "Moderate")
	assert.Contains(t, text, "Published 2 courses")
}

func TestWriteSummariesParquet(t *testing.T) {
	_, status := captureOutput(t)
	path := filepath.Join(t.TempDir(), "courses.parquet")

	require.NoError(t, WriteSummaries(testCourses(), &contract.Config{Output: schema.ParquetOut, OutputFile: path}))
	assert.Contains(t, status.String(), "💾 Wrote Parquet to "+path)

	rows, err := parquet.ReadFile[gsparquet.Course](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MATH 201", rows[1].Code)
	assert.Equal(t, int32(6), rows[1].GradeB)
}

func TestWriteQueryResultText(t *testing.T) {
	out, _ := captureOutput(t)

	courses := testCourses()
	result := schema.QueryResult{Courses: courses[:1], Shown: 1, Total: 2, HasMore: true, Subjects: []string{"All", "CSCI", "MATH"}}
	cfg := &contract.Config{Output: schema.TextOut, Width: 100, Query: schema.QueryOptions{Page: 1, PageSize: 1}}
	require.NoError(t, WriteQueryResult(result, cfg))

	text := out.String()
	assert.Contains(t, text, "CSCI 112")
	assert.NotContains(t, text, "MATH 201")
	assert.Contains(t, text, "Showing 1 of 2 courses")
	assert.Contains(t, text, "--page 2")
	assert.Contains(t, text, "Intro to Pro...", "titles are truncated to the table width")
}

func TestWriteQueryResultJSON(t *testing.T) {
	out, _ := captureOutput(t)

	result := schema.QueryResult{Shown: 0, Total: 0, Subjects: []string{"All"}}
	require.NoError(t, WriteQueryResult(result, &contract.Config{Output: schema.JSONOut}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["courses"])
	assert.Equal(t, false, decoded["has_more"])
	assert.Equal(t, []any{"All"}, decoded["subjects"])
}

func TestWriteQueryResultCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCourseCSV(&buf, testCourses(), true))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "MATH-201-Lee", records[2][1])
}

func TestGetMaxTableTitleWidth(t *testing.T) {
	tests := []struct {
		width    int
		expected int
	}{
		{width: 90, expected: 15},
		{width: 100, expected: 15},
		{width: 120, expected: 35},
		{width: 200, expected: 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetMaxTableTitleWidth(&contract.Config{Width: tt.width}), "width %d", tt.width)
	}

	auto := GetMaxTableTitleWidth(&contract.Config{})
	assert.GreaterOrEqual(t, auto, 15)
	assert.LessOrEqual(t, auto, 60)
}
