package core

import (
	"testing"

	"github.com/huangsam/gradestat/core/agg"
	"github.com/huangsam/gradestat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trendLabels groups the rows and returns the trend's semester labels in order.
func trendLabels(t *testing.T, rows ...schema.RawRecord) []string {
	t.Helper()
	r := agg.NewRegistry()
	for _, rec := range rows {
		require.True(t, r.Add(rec))
	}
	groups := r.Groups()
	require.Len(t, groups, 1)

	var labels []string
	for _, p := range BuildTrend(groups[0]) {
		labels = append(labels, p.Semester)
	}
	return labels
}

func TestBuildTrendUnknownTermsLeadTheYear(t *testing.T) {
	grades := map[string]string{"A": "5"}
	labels := trendLabels(t,
		row("CSCI", "112", "Smith", "Fall", "2023", "5", grades),
		row("CSCI", "112", "Smith", "Spring", "2023", "5", grades),
		row("CSCI", "112", "Smith", "Intersession", "2023", "5", grades),
	)
	assert.Equal(t, []string{"Intersession 2023", "Spring 2023", "Fall 2023"}, labels)
}

func TestBuildTrendAcrossYears(t *testing.T) {
	grades := map[string]string{"B": "5"}
	labels := trendLabels(t,
		row("CSCI", "112", "Smith", "Spring", "2024", "5", grades),
		row("CSCI", "112", "Smith", "Intersession", "2024", "5", grades),
		row("CSCI", "112", "Smith", "Fall", "2023", "5", grades),
		row("CSCI", "112", "Smith", "Summer", "2023", "5", grades),
		row("CSCI", "112", "Smith", "Intersession", "2023", "5", grades),
	)
	assert.Equal(t, []string{
		"Intersession 2023", "Summer 2023", "Fall 2023",
		"Intersession 2024", "Spring 2024",
	}, labels)
}
