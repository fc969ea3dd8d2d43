package cmd

import (
	"github.com/huangsam/gradestat/core"
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/spf13/cobra"
)

// buildCmd aggregates a grade file into course summaries.
var buildCmd = &cobra.Command{
	Use:   "build [input]",
	Short: "Aggregate a grade distribution file into course summaries.",
	Long: `Read section-level grade distributions and publish one summary per course and instructor.

Each row of the input describes one section of one course in one semester, with a
student count per letter grade. Build pools every row of a (course, instructor) pair
and computes:
- The combined grade histogram and total students
- Mean, median and standard deviation of GPA
- A per-semester GPA trend

Rows missing a subject, course number, term or year are skipped. Courses with fewer
than 5 students are dropped, as are exact duplicates.

Examples:
  # Build summaries for the course browser
  gradestat build grades.csv --output-file courses.json

  # Read the Fall sheet of a workbook and print a table
  gradestat build -i grades.xlsx --sheet Fall --output text

  # Export summaries for analytics and record the run
  gradestat build grades.csv --output parquet --output-file courses.parquet --runs-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build course summaries", err)
		}
	},
}
