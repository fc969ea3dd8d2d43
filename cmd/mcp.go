package cmd

import (
	"github.com/huangsam/gradestat/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gradestat MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents search built course summaries
and summarize grade files via standard tools.

Tools:
  search_courses   - search, filter, sort and page course summaries
  get_course       - fetch one course summary by id
  list_subjects    - list the subject filter values
  summarize_grades - run the aggregation pipeline on a grade file`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
