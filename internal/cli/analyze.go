package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/summary"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

var (
	analyzeQuery    string
	analyzeInclude  []string
	analyzeExclude  []string
	analyzeStrategy string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run a query against the files in a directory",
	Long: `Collect files from a directory and answer a query about them, chunking
the content through Gemini when it exceeds the small context window.

Examples:
  geminictx analyze . -q "where is request validation done?"
  geminictx analyze ./src -q "find SQL injection risks" --include "**/*.py"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuery, "query", "q", "", "question to answer about the files (required)")
	analyzeCmd.Flags().StringSliceVar(&analyzeInclude, "include", nil, "glob patterns for files to include")
	analyzeCmd.Flags().StringSliceVar(&analyzeExclude, "exclude", nil, "glob patterns for files to exclude")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "", "chunking strategy: simple, code_aware or semantic")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "emit the full result as JSON")
	_ = analyzeCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}

	strategy, err := types.ParseChunkingStrategy(analyzeStrategy)
	if err != nil {
		return err
	}

	logger := newLogger()
	col, an, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	files, err := collectWithProgress(col, path, types.FilePattern{
		Include:          analyzeInclude,
		Exclude:          analyzeExclude,
		RespectGitignore: true,
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found under %s", path)
	}

	files = col.ScoreRelevance(files, analyzeQuery)
	combined := summary.Combine(path, files)

	result, err := an.Analyze(cmd.Context(), &types.AnalysisRequest{
		Query:    analyzeQuery,
		Content:  combined,
		Strategy: strategy,
		Metadata: map[string]string{"project_path": path},
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return printJSON(map[string]interface{}{
			"query":            analyzeQuery,
			"files_analyzed":   len(files),
			"total_tokens":     result.TotalTokens,
			"used_large_model": result.UsedLargeModel,
			"chunks_processed": result.ChunksProcessed,
			"response":         result.Response,
		})
	}

	if !result.UsedLargeModel {
		fmt.Printf("Content fits in %d tokens; paste it into your assistant directly or lower limits.small_context_tokens.\n",
			result.TotalTokens)
		return nil
	}

	fmt.Println(result.Response)
	return nil
}
