// Package core has the grade aggregation pipeline and the queries over its output.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gradestat/core/agg"
	"github.com/huangsam/gradestat/internal"
	"github.com/huangsam/gradestat/internal/contract"
	"github.com/huangsam/gradestat/internal/outwriter"
	"github.com/huangsam/gradestat/internal/source"
	"github.com/huangsam/gradestat/schema"
)

// PipelineOutput is the result of one pipeline run.
type PipelineOutput struct {
	Summaries []schema.CourseSummary
	Stats     schema.RunStats
}

// RunPipeline reads every record of src and returns the published summaries.
// The group registry lives only for the duration of this call.
func RunPipeline(ctx context.Context, src contract.RecordSource) (*PipelineOutput, error) {
	registry := agg.NewRegistry()
	var stats schema.RunStats

	err := src.Records(ctx, func(raw schema.RawRecord) error {
		stats.RowsRead++
		if !registry.Add(raw) {
			stats.RowsSkipped++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Describe(), err)
	}

	for _, g := range registry.Groups() {
		if err := g.CheckConsistency(); err != nil {
			return nil, err
		}
	}

	summaries := SummarizeAll(registry)
	kept, below, dups := filterSummaries(summaries)

	stats.Groups = registry.Len()
	stats.BelowThreshold = below
	stats.Duplicates = dups
	stats.Emitted = len(kept)

	return &PipelineOutput{Summaries: kept, Stats: stats}, nil
}

// ExecuteBuild runs the pipeline over the configured input and writes the summaries.
// It serves as the main entry point for the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	src, err := source.New(cfg.InputPath, cfg.InputFormat, cfg.Sheet)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		format, _ := source.ResolveFormat(cfg.InputPath, cfg.InputFormat)
		internal.LogBuildHeader(src.Describe(), format)
	}

	output, err := RunPipeline(ctx, src)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	if err := outwriter.WriteSummaries(output.Summaries, cfg); err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) {
		internal.LogBuildSummary(output.Stats, duration)
	}

	// Only published builds get a run history entry.
	ctx = beginRun(ctx, cfg, mgr, start)
	endRun(ctx, mgr, output)
	return nil
}

// beginRun opens a run history entry when a store is configured.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, start time.Time) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetRunStore()
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"input":        cfg.InputPath,
		"input_format": string(cfg.InputFormat),
		"sheet":        cfg.Sheet,
		"output":       string(cfg.Output),
		"min_students": schema.MinStudents,
	}
	runID, err := store.BeginRun(start, cfg.InputPath, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx
}

// endRun records the published summaries and closes the run history entry.
func endRun(ctx context.Context, mgr contract.StoreManager, output *PipelineOutput) {
	runID, ok := getRunID(ctx)
	if !ok || mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}
	for _, s := range output.Summaries {
		if err := store.RecordSummary(runID, s); err != nil {
			contract.LogWarn("Failed to record course summary", err)
			break
		}
	}
	if err := store.EndRun(runID, time.Now(), output.Stats); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// LoadSummaries reads a JSON array of summaries written by a build.
func LoadSummaries(path string) ([]schema.CourseSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read course data: %w", err)
	}
	var summaries []schema.CourseSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, fmt.Errorf("failed to parse course data %s: %w", path, err)
	}
	return summaries, nil
}

// ExecuteQuery loads built summaries, applies the configured query and writes one page.
// It serves as the main entry point for the 'query' command.
func ExecuteQuery(ctx context.Context, cfg *contract.Config) error {
	if !shouldSuppressHeader(ctx) {
		internal.LogQueryHeader(cfg.DataPath, cfg.Query)
	}
	summaries, err := LoadSummaries(cfg.DataPath)
	if err != nil {
		return err
	}
	result := QueryCourses(summaries, cfg.Query)
	return outwriter.WriteQueryResult(result, cfg)
}
