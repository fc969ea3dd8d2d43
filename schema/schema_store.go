package schema

import "time"

// RunRecord represents a row from the gradestat_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	InputPath     string
	RowsRead      int32
	RowsSkipped   int32
	GroupCount    int32
	SummaryCount  int32
	ConfigParams  *string
}

// CourseRunRecord represents a row from the gradestat_course_results table.
type CourseRunRecord struct {
	RunID         int64
	CourseID      string
	Code          string
	Instructor    string
	TotalStudents int32
	SemesterCount int32
	GPA           float64
	MedianGPA     float64
	StdDev        float64
}
