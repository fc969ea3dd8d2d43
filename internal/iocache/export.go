package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/parquet"
)

// ExecuteRunsExport writes the run history to two Parquet files prefixed by outputFile.
func ExecuteRunsExport(outputFile string) error {
	return exportRuns(os.Stdout, Manager.GetRunStore(), outputFile)
}

func exportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total course records: %d\n", status.TableSizes[courseResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	results, err := store.GetAllCourseResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve course results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runRows), runsFile)

	resultsFile := outputFile + ".course_results.parquet"
	resultRows := parquet.ConvertCourseRunRecords(results)
	if err := parquet.WriteCourseResultsParquet(resultRows, resultsFile); err != nil {
		return fmt.Errorf("failed to write course results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d course records to: %s\n", len(resultRows), resultsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
