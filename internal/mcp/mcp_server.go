// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gradestat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Gradestat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Gradestat Course Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: search_courses ---
	s.AddTool(mcp.NewTool("search_courses",
		mcp.WithDescription("Search published course summaries by text, subject and minimum GPA."),
		mcp.WithString("data_path", mcp.Description("Path to the JSON file written by 'gradestat build' (defaults to the configured --data).")),
		mcp.WithString("search", mcp.Description("Words that must all appear in the course code, title or instructor.")),
		mcp.WithString("subject", mcp.Description("Subject to filter on. 'All' or empty matches every subject.")),
		mcp.WithNumber("min_gpa", mcp.Description("Minimum mean GPA between 0 and 4. Zero disables the filter.")),
		mcp.WithString("sort", mcp.Description("Sort key. Defaults to 'gpa'."), mcp.Enum("gpa", "medianGpa", "totalStudents", "instructor", "code")),
		mcp.WithString("order", mcp.Description("Sort direction. Defaults to 'desc'."), mcp.Enum("asc", "desc")),
		mcp.WithNumber("page", mcp.Description("Number of pages to return, starting at 1.")),
		mcp.WithNumber("page_size", mcp.Description("Courses per page. Defaults to 50.")),
	), h.handleSearchCourses)

	// --- 2. Tool: get_course ---
	s.AddTool(mcp.NewTool("get_course",
		mcp.WithDescription("Get the full summary of one course, including its grade histogram and semester trend."),
		mcp.WithString("id", mcp.Description("Course id, e.g. 'CSCI 112-Smith'."), mcp.Required()),
		mcp.WithString("data_path", mcp.Description("Path to the JSON file written by 'gradestat build'.")),
	), h.handleGetCourse)

	// --- 3. Tool: list_subjects ---
	s.AddTool(mcp.NewTool("list_subjects",
		mcp.WithDescription("List the subjects present in the published course summaries."),
		mcp.WithString("data_path", mcp.Description("Path to the JSON file written by 'gradestat build'.")),
	), h.handleListSubjects)

	// --- 4. Tool: summarize_grades ---
	s.AddTool(mcp.NewTool("summarize_grades",
		mcp.WithDescription("Aggregate a CSV or XLSX grade file into course summaries without writing any output."),
		mcp.WithString("input", mcp.Description("Path to the grade data file."), mcp.Required()),
		mcp.WithString("input_format", mcp.Description("Input format. Defaults to detection by extension."), mcp.Enum("auto", "csv", "xlsx")),
		mcp.WithString("sheet", mcp.Description("Worksheet name for XLSX input. Defaults to the first sheet.")),
	), h.handleSummarizeGrades)

	return s
}

// StartMCPServer starts the Gradestat MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
