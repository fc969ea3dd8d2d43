// Package internal has the progress headers shared by the build and query commands.
package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/gradestat/schema"
)

// headerWriter receives progress lines. Stdout is reserved for results.
var headerWriter io.Writer = os.Stderr

// inputName returns the base name of an input path for display.
func inputName(path string) string {
	name := filepath.Base(path)
	if name == "" || name == "." {
		name = "stdin"
	}
	return name
}

// LogBuildHeader prints a one-line header before the records are read.
func LogBuildHeader(source string, format schema.InputFormat) {
	_, _ = fmt.Fprintf(headerWriter, "🔎 Input: %s (Format: %s)\n", inputName(source), format)
}

// LogBuildSummary prints what the pipeline kept and dropped.
func LogBuildSummary(stats schema.RunStats, duration time.Duration) {
	_, _ = fmt.Fprintf(headerWriter, "📅 Rows: %d read, %d skipped → %d groups, %d below threshold, %d duplicates\n",
		stats.RowsRead, stats.RowsSkipped, stats.Groups, stats.BelowThreshold, stats.Duplicates)
	_, _ = fmt.Fprintf(headerWriter, "📊 Published %d courses in %v\n", stats.Emitted, duration.Round(time.Millisecond))
}

// LogQueryHeader prints the data file and the active filters of a query.
func LogQueryHeader(dataPath string, opts schema.QueryOptions) {
	subject := opts.Subject
	if subject == "" {
		subject = schema.AllSubjects
	}
	_, _ = fmt.Fprintf(headerWriter, "🔎 Data: %s (Subject: %s)\n", inputName(dataPath), subject)
	if opts.Search != "" || opts.MinGPA > 0 {
		_, _ = fmt.Fprintf(headerWriter, "📅 Search: %q, min GPA %.2f\n", opts.Search, opts.MinGPA)
	}
}
