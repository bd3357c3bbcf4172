package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/collector"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/summary"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

var (
	summarizeFocus   []string
	summarizeInclude []string
	summarizeExclude []string
	summarizeJSON    bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [path]",
	Short: "Summarize a project directory",
	Long: `Collect the files in a project directory and produce a structured
summary through Gemini.

Examples:
  geminictx summarize .
  geminictx summarize /path/to/project --focus security --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringSliceVar(&summarizeFocus, "focus", nil, "topics the summary should emphasize")
	summarizeCmd.Flags().StringSliceVar(&summarizeInclude, "include", nil, "glob patterns for files to include")
	summarizeCmd.Flags().StringSliceVar(&summarizeExclude, "exclude", nil, "glob patterns for files to exclude")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}

	logger := newLogger()
	col, an, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	files, err := collectWithProgress(col, path, types.FilePattern{
		Include:          summarizeInclude,
		Exclude:          summarizeExclude,
		RespectGitignore: true,
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found under %s", path)
	}

	combined := summary.Combine(path, files)
	stats := summary.BuildStatistics(files)

	fmt.Printf("Analyzing %d files (%d tokens)...\n", stats.TotalFiles, stats.TotalTokens)

	result, err := an.Analyze(cmd.Context(), &types.AnalysisRequest{
		Query:    summary.AnalysisQuery(summarizeFocus),
		Content:  combined,
		Strategy: types.StrategyCodeAware,
		Metadata: map[string]string{"project_path": path},
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if !result.UsedLargeModel {
		fmt.Printf("\nProject fits in %d tokens; no large-context analysis needed.\n", result.TotalTokens)
		fmt.Printf("Languages: %s\n", strings.Join(stats.TopLanguages(), ", "))
		return nil
	}

	sections := summary.ParseSections(result.Response)

	if summarizeJSON {
		return printJSON(map[string]interface{}{
			"project_path":     path,
			"statistics":       stats,
			"analysis":         sections,
			"chunks_processed": result.ChunksProcessed,
			"total_tokens":     result.TotalTokens,
		})
	}

	printSections(sections)
	fmt.Printf("\nProcessed %d chunks, %d tokens total.\n", result.ChunksProcessed, result.TotalTokens)
	return nil
}

// collectWithProgress discovers files, then loads them behind a progress bar
func collectWithProgress(col *collector.Collector, path string, pattern types.FilePattern) ([]types.CollectedFile, error) {
	paths, err := col.Discover(path, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	absRoot, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Collecting"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	files := make([]types.CollectedFile, 0, len(paths))
	for _, p := range paths {
		if file, ok := col.Load(p, absRoot); ok {
			files = append(files, file)
		}
		_ = bar.Add(1)
	}
	return files, nil
}

func targetPath(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}
	return abs, nil
}

func printJSON(data map[string]interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printSections(s summary.Sections) {
	printSection := func(title, body string) {
		if body != "" {
			fmt.Printf("\n## %s\n%s\n", title, body)
		}
	}
	printList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n## %s\n", title)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printSection("Overview", s.Overview)
	printList("Technology Stack", s.TechStack)
	printSection("Architecture", s.Architecture)
	printList("Main Components", s.Components)
	printList("Key Features", s.KeyFeatures)
	printList("Dependencies", s.Dependencies)
	printSection("Code Quality", s.CodeQuality)
}
