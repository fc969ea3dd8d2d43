package cmd

import (
	"github.com/huangsam/gradestat/core"
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// querySetupWrapper defaults query output to a table before the shared setup runs.
func querySetupWrapper(cmd *cobra.Command, args []string) error {
	viper.SetDefault("output", string(schema.TextOut))
	return sharedSetup(rootCtx, cmd, args)
}

// queryCmd searches previously built course summaries.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search, filter and sort built course summaries.",
	Long: `Browse the summaries written by 'gradestat build'.

Filters:
- --search matches when every word appears in the course code, title or instructor
- --subject keeps one subject ('All' keeps every subject)
- --min-gpa keeps courses whose mean GPA is at least the value

Results are sorted by --sort and --order and shown in pages of --page-size courses.
--page N shows the first N pages.

Examples:
  # Highest GPA computer science courses
  gradestat query --data courses.json --subject CSCI

  # Every course taught by an instructor, by course code
  gradestat query --search smith --sort code --order asc

  # Large courses as JSON
  gradestat query --sort totalStudents --page-size 10 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: querySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQuery(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot query course summaries", err)
		}
	},
}
