package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/analyzer"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/cache"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/collector"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gateway"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/gemini"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/tokenizer"
)

const (
	// ServerName is the MCP server name
	ServerName = "gemini-context-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	cfg       *config.Config
	collector *collector.Collector
	analyzer  *analyzer.Analyzer
	logger    *slog.Logger
}

// NewServer wires the full pipeline behind the MCP tool surface: tokenizer,
// Gemini client, rate-limited gateway, result cache, analyzer and collector.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := gemini.NewClient(cfg.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	counter := tokenizer.New(tokenizer.DefaultCacheSize)
	gw := gateway.NewForGemini(client, cfg.RateLimit, cfg.Retry, logger)
	results := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL, cache.ParsePolicy(cfg.Cache.Policy))

	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion),
		cfg:       cfg,
		collector: collector.New(cfg.Collector, counter, logger),
		analyzer:  analyzer.New(gw, counter, results, cfg.Limits, cfg.Processing, logger),
		logger:    logger,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting MCP server",
		"name", ServerName,
		"version", ServerVersion,
		"model", s.cfg.Gemini.Model)
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(summarizeProjectTool(), s.handleSummarizeProject)
	s.mcp.AddTool(analyzeFilesTool(), s.handleAnalyzeFiles)
	s.mcp.AddTool(explainCodeTool(), s.handleExplainCode)
	s.mcp.AddTool(getConfigTool(), s.handleGetConfig)
}
