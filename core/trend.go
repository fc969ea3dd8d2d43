package core

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/gradestat/core/agg"
	"github.com/huangsam/gradestat/core/algo"
	"github.com/huangsam/gradestat/schema"
)

// parseYear reads a year cell; anything non-numeric sorts as year 0.
func parseYear(s string) int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return y
}

// BuildTrend returns one point per semester ordered by year, then term.
// Unrecognized terms sort before Spring within their year.
func BuildTrend(g *agg.CourseGroup) []schema.SemesterPoint {
	semesters := g.Semesters()
	points := make([]schema.SemesterPoint, 0, len(semesters))
	for _, s := range semesters {
		points = append(points, schema.SemesterPoint{
			Semester:     s.Label,
			Term:         s.Term,
			Year:         parseYear(s.Year),
			GPA:          algo.FormatGPA(algo.MeanGPA(s.Grades)),
			StudentCount: s.TotalStudents,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if ra, rb := schema.TermRank(a.Term), schema.TermRank(b.Term); ra != rb {
			return ra < rb
		}
		return a.Semester < b.Semester
	})
	return points
}

// semesterLabels returns the group's semester labels in lexicographic order.
func semesterLabels(g *agg.CourseGroup) []string {
	semesters := g.Semesters()
	labels := make([]string, 0, len(semesters))
	for _, s := range semesters {
		labels = append(labels, s.Label)
	}
	slices.Sort(labels)
	return labels
}
