// Package parquet provides data structures and functions for exporting course
// summaries and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gradestat/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single build run with metadata.
// This struct maps to the gradestat_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	InputPath    string `parquet:"input_path,snappy"`
	RowsRead     int32  `parquet:"rows_read,snappy"`
	RowsSkipped  int32  `parquet:"rows_skipped,snappy"`
	GroupCount   int32  `parquet:"group_count,snappy"`
	SummaryCount int32  `parquet:"summary_count,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// CourseResult is one published summary recorded for a run.
// This struct maps to the gradestat_course_results database table.
type CourseResult struct {
	RunID         int64   `parquet:"run_id,snappy"`
	CourseID      string  `parquet:"course_id,snappy"`
	Code          string  `parquet:"code,snappy"`
	Instructor    string  `parquet:"instructor,snappy"`
	TotalStudents int32   `parquet:"total_students,snappy"`
	SemesterCount int32   `parquet:"semester_count,snappy"`
	GPA           float64 `parquet:"gpa,snappy"`
	MedianGPA     float64 `parquet:"median_gpa,snappy"`
	StdDev        float64 `parquet:"std_dev,snappy"`
}

// Course is the flat Parquet form of a course summary.
// The histogram becomes one column per grade and the trend is dropped.
type Course struct {
	ID            string   `parquet:"id,snappy"`
	Subject       string   `parquet:"subject,snappy"`
	CourseNumber  string   `parquet:"course_number,snappy"`
	Code          string   `parquet:"code,snappy"`
	Title         string   `parquet:"title,snappy"`
	Instructor    string   `parquet:"instructor,snappy"`
	CRN           string   `parquet:"crn,snappy"`
	TotalStudents int32    `parquet:"total_students,snappy"`
	Semesters     []string `parquet:"semesters,list"`
	GPA           float64  `parquet:"gpa,snappy"`
	StdDev        float64  `parquet:"std_dev,snappy"`
	MedianGPA     float64  `parquet:"median_gpa,snappy"`

	GradeAPlus  int32 `parquet:"grade_a_plus,snappy"`
	GradeA      int32 `parquet:"grade_a,snappy"`
	GradeAMinus int32 `parquet:"grade_a_minus,snappy"`
	GradeBPlus  int32 `parquet:"grade_b_plus,snappy"`
	GradeB      int32 `parquet:"grade_b,snappy"`
	GradeBMinus int32 `parquet:"grade_b_minus,snappy"`
	GradeCPlus  int32 `parquet:"grade_c_plus,snappy"`
	GradeC      int32 `parquet:"grade_c,snappy"`
	GradeCMinus int32 `parquet:"grade_c_minus,snappy"`
	GradeD      int32 `parquet:"grade_d,snappy"`
	GradeF      int32 `parquet:"grade_f,snappy"`
}

// writeRows writes every row with a schema inferred from T's struct tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeRowsToPath creates outputPath and writes the rows to it.
func writeRowsToPath[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRowsToPath(data, outputPath)
}

// WriteCourseResultsParquet writes a slice of CourseResult structs to a Parquet file.
func WriteCourseResultsParquet(data []CourseResult, outputPath string) error {
	return writeRowsToPath(data, outputPath)
}

// WriteCourses writes course summaries as Parquet to w.
func WriteCourses(w io.Writer, summaries []schema.CourseSummary) error {
	return writeRows(w, ConvertCourseSummaries(summaries))
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			InputPath:     record.InputPath,
			RowsRead:      record.RowsRead,
			RowsSkipped:   record.RowsSkipped,
			GroupCount:    record.GroupCount,
			SummaryCount:  record.SummaryCount,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertCourseRunRecords converts schema.CourseRunRecord to CourseResult for Parquet export.
func ConvertCourseRunRecords(records []schema.CourseRunRecord) []CourseResult {
	result := make([]CourseResult, len(records))
	for i, record := range records {
		result[i] = CourseResult(record)
	}
	return result
}

// ConvertCourseSummaries flattens summaries into Course rows.
func ConvertCourseSummaries(summaries []schema.CourseSummary) []Course {
	result := make([]Course, len(summaries))
	for i, s := range summaries {
		g := s.Grades
		result[i] = Course{
			ID:            s.ID,
			Subject:       s.Subject,
			CourseNumber:  s.CourseNumber,
			Code:          s.Code,
			Title:         s.Title,
			Instructor:    s.Instructor,
			CRN:           s.CRN,
			TotalStudents: int32(s.TotalStudents),
			Semesters:     s.Semesters,
			GPA:           s.GPAValue(),
			StdDev:        s.StdDevValue(),
			MedianGPA:     s.MedianValue(),
			GradeAPlus:    int32(g.Get(schema.GradeAPlus)),
			GradeA:        int32(g.Get(schema.GradeA)),
			GradeAMinus:   int32(g.Get(schema.GradeAMinus)),
			GradeBPlus:    int32(g.Get(schema.GradeBPlus)),
			GradeB:        int32(g.Get(schema.GradeB)),
			GradeBMinus:   int32(g.Get(schema.GradeBMinus)),
			GradeCPlus:    int32(g.Get(schema.GradeCPlus)),
			GradeC:        int32(g.Get(schema.GradeC)),
			GradeCMinus:   int32(g.Get(schema.GradeCMinus)),
			GradeD:        int32(g.Get(schema.GradeD)),
			GradeF:        int32(g.Get(schema.GradeF)),
		}
	}
	return result
}
