// Package schema has the data model shared by the grade pipeline, its outputs and its stores.
package schema

import "strconv"

// RawRecord is one row of grade data: one section of one course in one semester.
// Keys are column names such as FieldSubject; values are the literal cell text.
type RawRecord map[string]string

// SemesterPoint is one entry of a course's semester trend.
type SemesterPoint struct {
	Semester     string `json:"semester"`
	Term         string `json:"term"`
	Year         int    `json:"year"`
	GPA          string `json:"gpa"`
	StudentCount int    `json:"studentCount"`
}

// CourseSummary is the published view of one (course, instructor) group.
// GPA, StdDev and MedianGPA are fixed two-decimal strings.
type CourseSummary struct {
	ID            string          `json:"id"`
	Subject       string          `json:"subject"`
	CourseNumber  string          `json:"courseNumber"`
	Code          string          `json:"code"`
	Title         string          `json:"title"`
	Instructor    string          `json:"instructor"`
	CRN           string          `json:"crn"`
	TotalStudents int             `json:"totalStudents"`
	Grades        GradeHistogram  `json:"grades"`
	Semesters     []string        `json:"semesters"`
	SemesterData  []SemesterPoint `json:"semesterData"`
	GPA           string          `json:"gpa"`
	StdDev        string          `json:"stdDev"`
	MedianGPA     string          `json:"medianGpa"`
}

// GPAValue returns the mean GPA as a number.
func (c CourseSummary) GPAValue() float64 {
	return parseStat(c.GPA)
}

// MedianValue returns the median GPA as a number.
func (c CourseSummary) MedianValue() float64 {
	return parseStat(c.MedianGPA)
}

// StdDevValue returns the GPA standard deviation as a number.
func (c CourseSummary) StdDevValue() float64 {
	return parseStat(c.StdDev)
}

func parseStat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// RunStats counts what happened to the rows and groups of one pipeline run.
type RunStats struct {
	RowsRead       int `json:"rows_read"`
	RowsSkipped    int `json:"rows_skipped"`
	Groups         int `json:"groups"`
	BelowThreshold int `json:"below_threshold"`
	Duplicates     int `json:"duplicates"`
	Emitted        int `json:"emitted"`
}

// QueryOptions narrows, orders and pages a set of course summaries.
type QueryOptions struct {
	Search   string
	Subject  string
	MinGPA   float64
	SortKey  SortKey
	Order    SortOrder
	Page     int
	PageSize int
}

// QueryResult is one page of a course query.
type QueryResult struct {
	Courses  []CourseSummary `json:"courses"`
	Shown    int             `json:"shown"`
	Total    int             `json:"total"`
	HasMore  bool            `json:"has_more"`
	Subjects []string        `json:"subjects"`
}
