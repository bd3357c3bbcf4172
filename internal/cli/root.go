// Package cli implements the geminictx command line interface, a direct
// (non-MCP) way to run project analysis from a terminal.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/analyzer"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/cache"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/collector"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gateway"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gemini"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/tokenizer"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "geminictx",
	Short: "Analyze large codebases through Gemini's context window",
	Long: `geminictx collects project files, chunks them to fit Gemini's context
window, and runs analysis queries against them.

Example usage:
  geminictx summarize .                         # Summarize current directory
  geminictx analyze . -q "how does auth work"   # Ask a question about the code`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromEnv()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gemini-context/config.yaml)")
}

// newLogger builds the CLI logger. Progress output goes to stdout, structured
// logs to stderr at warn level so they do not drown the results.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// buildPipeline wires the collector and analyzer the same way the MCP server
// does
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*collector.Collector, *analyzer.Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := gemini.NewClient(cfg.Gemini)
	if err != nil {
		return nil, nil, err
	}

	counter := tokenizer.New(tokenizer.DefaultCacheSize)
	gw := gateway.NewForGemini(client, cfg.RateLimit, cfg.Retry, logger)
	results := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL, cache.ParsePolicy(cfg.Cache.Policy))

	col := collector.New(cfg.Collector, counter, logger)
	an := analyzer.New(gw, counter, results, cfg.Limits, cfg.Processing, logger)
	return col, an, nil
}
