package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/summary"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// defaultExplainPrompt is used by explain_code when no custom prompt is given
const defaultExplainPrompt = "Explain how this code works. Describe the overall structure, " +
	"the main components and their responsibilities, and how they interact."

// handleSummarizeProject handles the summarize_project tool invocation
func (s *Server) handleSummarizeProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return failureResult("invalid arguments"), nil
	}

	dir, ok := args["directory_path"].(string)
	if !ok || dir == "" {
		return failureResult("directory_path parameter is required"), nil
	}

	focusAreas := getStringList(args, "focus_areas")
	pattern := types.FilePattern{
		Include:          getStringList(args, "include_patterns"),
		Exclude:          getStringList(args, "exclude_patterns"),
		RespectGitignore: true,
	}

	files, err := s.collector.Collect(dir, pattern)
	if err != nil {
		return failureResult(err.Error()), nil
	}
	if len(files) == 0 {
		return failureResult("No files found matching the specified patterns"), nil
	}

	combined := summary.Combine(dir, files)
	stats := summary.BuildStatistics(files)

	result, err := s.analyzer.Analyze(ctx, &types.AnalysisRequest{
		Query:    summary.AnalysisQuery(focusAreas),
		Content:  combined,
		Strategy: types.StrategyCodeAware,
		Metadata: map[string]string{"project_path": dir},
	})
	if err != nil {
		s.logger.Error("project summarization failed", "path", dir, "error", err)
		return failureResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"status":       "success",
		"project_path": dir,
		"statistics":   stats,
		"structure":    summary.Structure(dir, files),
		"analysis_details": map[string]interface{}{
			"files_analyzed":   len(files),
			"total_tokens":     result.TotalTokens,
			"used_large_model": result.UsedLargeModel,
			"chunks_processed": result.ChunksProcessed,
			"analysis_id":      result.Metadata["analysis_id"],
		},
	}

	if result.UsedLargeModel {
		// The parsed sections sit at the top level of the payload
		sections := summary.ParseSections(result.Response)
		response["overview"] = sections.Overview
		response["tech_stack"] = sections.TechStack
		response["architecture"] = sections.Architecture
		response["components"] = sections.Components
		response["key_features"] = sections.KeyFeatures
		response["dependencies"] = sections.Dependencies
		response["code_quality"] = sections.CodeQuality
	} else {
		// Small enough for the caller's own context; hand the combined
		// content back instead of spending a Gemini call on it
		response["content"] = combined
		response["message"] = "Project fits in the available context; content returned for direct analysis"
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAnalyzeFiles handles the analyze_files tool invocation
func (s *Server) handleAnalyzeFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return failureResult("invalid arguments"), nil
	}

	dir, ok := args["directory_path"].(string)
	if !ok || dir == "" {
		return failureResult("directory_path parameter is required"), nil
	}
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return failureResult("query parameter is required"), nil
	}

	strategy, err := types.ParseChunkingStrategy(getStringDefault(args, "chunking_strategy", ""))
	if err != nil {
		return failureResult(err.Error()), nil
	}

	pattern := types.FilePattern{
		Include:          getStringList(args, "include_patterns"),
		Exclude:          getStringList(args, "exclude_patterns"),
		RespectGitignore: true,
	}

	return s.analyzeDirectory(ctx, dir, query, strategy, pattern)
}

// handleExplainCode handles the explain_code tool invocation
func (s *Server) handleExplainCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return failureResult("invalid arguments"), nil
	}

	dir, ok := args["directory_path"].(string)
	if !ok || dir == "" {
		return failureResult("directory_path parameter is required"), nil
	}

	prompt := getStringDefault(args, "prompt", defaultExplainPrompt)
	pattern := types.FilePattern{RespectGitignore: true}

	return s.analyzeDirectory(ctx, dir, prompt, types.StrategyCodeAware, pattern)
}

// handleGetConfig handles the get_config tool invocation
func (s *Server) handleGetConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.cfg

	response := map[string]interface{}{
		"status": "success",
		"gemini": map[string]interface{}{
			"model":             cfg.Gemini.Model,
			"temperature":       cfg.Gemini.Temperature,
			"max_output_tokens": cfg.Gemini.MaxOutputTokens,
			"timeout_seconds":   cfg.Gemini.Timeout.Seconds(),
			"api_key_set":       cfg.Gemini.APIKey != "",
		},
		"limits": map[string]interface{}{
			"small_context_tokens": cfg.Limits.SmallContextTokens,
			"large_context_tokens": cfg.Limits.LargeContextTokens,
		},
		"processing": map[string]interface{}{
			"chunk_tokens":   cfg.Processing.ChunkTokens,
			"overlap_tokens": cfg.Processing.OverlapTokens,
		},
		"cache": map[string]interface{}{
			"max_entries": cfg.Cache.MaxEntries,
			"ttl_seconds": cfg.Cache.TTL.Seconds(),
			"policy":      cfg.Cache.Policy,
		},
		"rate_limit": map[string]interface{}{
			"requests":       cfg.RateLimit.Requests,
			"window_seconds": cfg.RateLimit.Window.Seconds(),
		},
		"retry": map[string]interface{}{
			"max_attempts":          cfg.Retry.MaxAttempts,
			"initial_delay_seconds": cfg.Retry.InitialDelay.Seconds(),
			"max_delay_seconds":     cfg.Retry.MaxDelay.Seconds(),
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// analyzeDirectory is the shared collect-combine-analyze path behind
// analyze_files and explain_code
func (s *Server) analyzeDirectory(ctx context.Context, dir, query string,
	strategy types.ChunkingStrategy, pattern types.FilePattern) (*mcp.CallToolResult, error) {

	files, err := s.collector.Collect(dir, pattern)
	if err != nil {
		return failureResult(err.Error()), nil
	}
	if len(files) == 0 {
		return failureResult("No files found matching the specified patterns"), nil
	}

	files = s.collector.ScoreRelevance(files, query)
	combined := summary.Combine(dir, files)

	result, err := s.analyzer.Analyze(ctx, &types.AnalysisRequest{
		Query:    query,
		Content:  combined,
		Strategy: strategy,
		Metadata: map[string]string{"project_path": dir},
	})
	if err != nil {
		s.logger.Error("analysis failed", "path", dir, "error", err)
		return failureResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"status":           "success",
		"query":            query,
		"files_analyzed":   len(files),
		"total_tokens":     result.TotalTokens,
		"used_large_model": result.UsedLargeModel,
		"chunks_processed": result.ChunksProcessed,
		"analysis_id":      result.Metadata["analysis_id"],
	}

	if result.UsedLargeModel {
		response["response"] = result.Response
	} else {
		response["content"] = combined
		response["message"] = "Content fits in the available context; returned for direct analysis"
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// failureResult wraps a tool-level failure as a structured result. Failures
// stay inside the tool payload; the transport never sees them as errors.
func failureResult(message string) *mcp.CallToolResult {
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"status": "failed",
		"error":  message,
	}))
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// getStringList extracts an array-of-strings parameter, tolerating the
// []interface{} the JSON decoder produces
func getStringList(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			items = append(items, s)
		}
	}
	return items
}
