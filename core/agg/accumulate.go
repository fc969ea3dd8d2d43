package agg

import (
	"strconv"
	"strings"

	"github.com/huangsam/gradestat/schema"
)

// ParseCount reads the leading integer of a cell as a count, so "10.0" and
// "15abc" read as 10 and 15. Missing, non-numeric and negative values count as 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return 0
	}
	s = strings.TrimPrefix(s, "+")
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		s = s[:end]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Accumulate adds a record's grade counts and student total to its semester and group.
func (r *Registry) Accumulate(rec NormalizedRecord, group *CourseGroup, semester *SemesterAggregate) {
	var grades schema.GradeHistogram
	for i, letter := range schema.GradeLetters {
		grades[i] = ParseCount(rec.Raw[string(letter)])
	}
	total := ParseCount(rec.Raw[schema.FieldTotalStudents])

	semester.Grades.Add(grades)
	semester.TotalStudents += total
	group.Grades.Add(grades)
	group.TotalStudents += total
}

// Add runs one raw record through the filter, grouper and accumulator.
// It reports false when the record was rejected.
func (r *Registry) Add(raw schema.RawRecord) bool {
	rec, ok := FilterRecord(raw)
	if !ok {
		return false
	}
	group, semester := r.Group(rec)
	r.Accumulate(rec, group, semester)
	return true
}
