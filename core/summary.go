package core

import (
	"github.com/huangsam/gradestat/core/agg"
	"github.com/huangsam/gradestat/core/algo"
	"github.com/huangsam/gradestat/schema"
)

// Summarize derives the published summary of one group.
func Summarize(g *agg.CourseGroup) schema.CourseSummary {
	stats := algo.Compute(g.Grades)
	return schema.CourseSummary{
		ID:            g.Key.ID(),
		Subject:       g.Subject,
		CourseNumber:  g.CourseNumber,
		Code:          g.Key.Code,
		Title:         g.Title,
		Instructor:    g.Key.Instructor,
		CRN:           g.CRN,
		TotalStudents: g.TotalStudents,
		Grades:        g.Grades,
		Semesters:     semesterLabels(g),
		SemesterData:  BuildTrend(g),
		GPA:           algo.FormatGPA(stats.Mean),
		StdDev:        algo.FormatGPA(stats.StdDev),
		MedianGPA:     algo.FormatGPA(stats.Median),
	}
}

// SummarizeAll derives a summary for every group in first-seen order.
func SummarizeAll(r *agg.Registry) []schema.CourseSummary {
	groups := r.Groups()
	out := make([]schema.CourseSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, Summarize(g))
	}
	return out
}
