package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/gradestat/core"
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/source"
	"github.com/huangsam/gradestat/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// loadSummaries reads the data file named by the request, or the configured one.
func (h *toolHandler) loadSummaries(request mcp.CallToolRequest) ([]schema.CourseSummary, error) {
	path := request.GetString("data_path", h.baseCfg.DataPath)
	if path == "" {
		path = contract.DefaultDataFile
	}
	return core.LoadSummaries(path)
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleSearchCourses(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	input := &contract.ConfigRawInput{
		Search:   request.GetString("search", ""),
		Subject:  request.GetString("subject", ""),
		MinGPA:   request.GetFloat("min_gpa", 0),
		Sort:     request.GetString("sort", ""),
		Order:    request.GetString("order", ""),
		Page:     request.GetInt("page", 0),
		PageSize: request.GetInt("page_size", 0),
	}
	if err := contract.RevalidateQuery(cfg, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid query parameters: %v", err)), nil
	}

	summaries, err := h.loadSummaries(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return jsonResult(core.QueryCourses(summaries, cfg.Query)), nil
}

func (h *toolHandler) handleGetCourse(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	summaries, err := h.loadSummaries(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	course, ok := core.FindCourse(summaries, id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("course %q not found", id)), nil
	}
	return jsonResult(course), nil
}

func (h *toolHandler) handleListSubjects(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := h.loadSummaries(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return jsonResult(core.ListSubjects(summaries)), nil
}

func (h *toolHandler) handleSummarizeGrades(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := schema.InputFormat(request.GetString("input_format", string(schema.AutoInput)))
	src, err := source.New(request.GetString("input", ""), format, request.GetString("sheet", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
	}

	output, err := core.RunPipeline(core.WithSuppressHeader(ctx), src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	return jsonResult(struct {
		Stats   schema.RunStats        `json:"stats"`
		Courses []schema.CourseSummary `json:"courses"`
	}{output.Stats, output.Summaries}), nil
}
