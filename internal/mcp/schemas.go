package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// summarizeProjectTool returns the tool definition for summarize_project
func summarizeProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "summarize_project",
		Description: "Analyze an entire project directory with Gemini's large context window and return a structured summary",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project directory to summarize",
				},
				"focus_areas": map[string]interface{}{
					"type":        "array",
					"description": "Optional topics the summary should pay particular attention to (e.g. 'security', 'architecture')",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"include_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for files to include (e.g. '**/*.py'). Defaults to all supported source extensions",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"exclude_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for files to exclude, applied on top of the built-in ignore list",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"directory_path"},
		},
	}
}

// analyzeFilesTool returns the tool definition for analyze_files
func analyzeFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_files",
		Description: "Run an arbitrary query against the files in a directory, chunking through Gemini when the content exceeds the small context window",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the directory containing the files to analyze",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer about the files",
				},
				"include_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for files to include",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"exclude_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Glob patterns for files to exclude",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"chunking_strategy": map[string]interface{}{
					"type":        "string",
					"description": "How to split oversized content: simple (line budget only), code_aware (prefer code boundaries), or semantic",
					"enum":        []string{"simple", "code_aware", "semantic"},
					"default":     "code_aware",
				},
			},
			Required: []string{"directory_path", "query"},
		},
	}
}

// explainCodeTool returns the tool definition for explain_code
func explainCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "explain_code",
		Description: "Explain how the code in a directory works, optionally guided by a custom prompt",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"directory_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the directory containing the code",
				},
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Optional custom question; defaults to a general explanation of structure and behavior",
				},
			},
			Required: []string{"directory_path"},
		},
	}
}

// getConfigTool returns the tool definition for get_config
func getConfigTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_config",
		Description: "Return the server's active configuration (API key redacted)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
