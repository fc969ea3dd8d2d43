package core

import "github.com/huangsam/gradestat/schema"

// dedupSignature identifies summaries that are considered the same record.
type dedupSignature struct {
	code          string
	gpa           string
	totalStudents int
}

// FilterSummaries drops groups under schema.MinStudents and keeps the first
// summary of each (code, gpa, totalStudents) signature.
func FilterSummaries(summaries []schema.CourseSummary) []schema.CourseSummary {
	out, _, _ := filterSummaries(summaries)
	return out
}

// filterSummaries is FilterSummaries that also reports how many summaries each pass removed.
func filterSummaries(summaries []schema.CourseSummary) (out []schema.CourseSummary, belowThreshold int, duplicates int) {
	out = make([]schema.CourseSummary, 0, len(summaries))
	seen := make(map[dedupSignature]struct{}, len(summaries))
	for _, s := range summaries {
		if s.TotalStudents < schema.MinStudents {
			belowThreshold++
			continue
		}
		sig := dedupSignature{code: s.Code, gpa: s.GPA, totalStudents: s.TotalStudents}
		if _, dup := seen[sig]; dup {
			duplicates++
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, s)
	}
	return out, belowThreshold, duplicates
}
