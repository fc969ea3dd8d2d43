package core

import (
	"slices"
	"sort"
	"strings"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
)

// QueryCourses filters, sorts and pages summaries the way the course browser does.
// The input slice is not modified.
func QueryCourses(summaries []schema.CourseSummary, opts schema.QueryOptions) schema.QueryResult {
	matched := make([]schema.CourseSummary, 0, len(summaries))
	words := strings.Fields(strings.ToLower(opts.Search))
	for _, s := range summaries {
		if matchesQuery(s, words, opts) {
			matched = append(matched, s)
		}
	}

	sortCourses(matched, opts.SortKey, opts.Order)

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = contract.DefaultPageSize
	}
	page := max(opts.Page, 1)
	limit := page * pageSize

	shown := min(limit, len(matched))
	return schema.QueryResult{
		Courses:  matched[:shown],
		Shown:    shown,
		Total:    len(matched),
		HasMore:  len(matched) > limit,
		Subjects: ListSubjects(summaries),
	}
}

// matchesQuery applies the subject, minimum GPA and search filters.
func matchesQuery(s schema.CourseSummary, words []string, opts schema.QueryOptions) bool {
	if opts.Subject != "" && opts.Subject != schema.AllSubjects && s.Subject != opts.Subject {
		return false
	}
	if opts.MinGPA > 0 && s.GPAValue() < opts.MinGPA {
		return false
	}
	if len(words) == 0 {
		return true
	}
	haystack := strings.ToLower(s.Code + " " + s.Title + " " + s.Instructor)
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

// sortCourses orders summaries in place. Numeric keys compare as numbers,
// text keys compare case-insensitively. Equal keys keep their input order.
func sortCourses(courses []schema.CourseSummary, key schema.SortKey, order schema.SortOrder) {
	if key == "" {
		key = schema.SortByGPA
	}
	desc := order != schema.Ascending

	var less func(a, b schema.CourseSummary) bool
	switch key {
	case schema.SortByMedianGPA:
		less = func(a, b schema.CourseSummary) bool { return a.MedianValue() < b.MedianValue() }
	case schema.SortByStudents:
		less = func(a, b schema.CourseSummary) bool { return a.TotalStudents < b.TotalStudents }
	case schema.SortByInstructor:
		less = func(a, b schema.CourseSummary) bool {
			return strings.ToLower(a.Instructor) < strings.ToLower(b.Instructor)
		}
	case schema.SortByCode:
		less = func(a, b schema.CourseSummary) bool { return strings.ToLower(a.Code) < strings.ToLower(b.Code) }
	default:
		less = func(a, b schema.CourseSummary) bool { return a.GPAValue() < b.GPAValue() }
	}

	sort.SliceStable(courses, func(i, j int) bool {
		if desc {
			return less(courses[j], courses[i])
		}
		return less(courses[i], courses[j])
	})
}

// ListSubjects returns "All" followed by the distinct subjects in order.
func ListSubjects(summaries []schema.CourseSummary) []string {
	seen := make(map[string]struct{}, len(summaries))
	subjects := make([]string, 0, len(summaries))
	for _, s := range summaries {
		if _, ok := seen[s.Subject]; ok || s.Subject == "" {
			continue
		}
		seen[s.Subject] = struct{}{}
		subjects = append(subjects, s.Subject)
	}
	slices.Sort(subjects)
	return append([]string{schema.AllSubjects}, subjects...)
}

// FindCourse returns the summary with the given id.
func FindCourse(summaries []schema.CourseSummary, id string) (schema.CourseSummary, bool) {
	for _, s := range summaries {
		if s.ID == id {
			return s, true
		}
	}
	return schema.CourseSummary{}, false
}
