// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/parquet"
	"github.com/huangsam/gradestat/schema"
)

// WriteSummaries outputs the published course summaries, dispatching based on the output format configured.
// The whole sequence is handed to a single serializer call.
func WriteSummaries(summaries []schema.CourseSummary, cfg *contract.Config) error {
	if summaries == nil {
		summaries = []schema.CourseSummary{}
	}

	switch cfg.Output {
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCourseCSV(w, summaries, false)
		}, "Wrote CSV")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeCourseTable(w, summaries, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Published %d courses\n", len(summaries))
			return err
		}, "Wrote table")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteCourses(w, summaries)
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	}
}

// WriteQueryResult outputs one page of a course query.
func WriteQueryResult(result schema.QueryResult, cfg *contract.Config) error {
	if result.Courses == nil {
		result.Courses = []schema.CourseSummary{}
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCourseCSV(w, result.Courses, true)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteCourses(w, result.Courses)
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeQueryTable(w, result, cfg)
		}, "Wrote table")
	}
}

// writeQueryTable writes the table of a page followed by its paging footer.
func writeQueryTable(w io.Writer, result schema.QueryResult, cfg *contract.Config) error {
	if err := writeCourseTable(w, result.Courses, cfg); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d courses\n", result.Shown, result.Total); err != nil {
		return err
	}
	if result.HasMore {
		next := cfg.Query.Page + 1
		if _, err := fmt.Fprintf(w, "More results available with --page %d\n", next); err != nil {
			return err
		}
	}
	return nil
}
