// Package mcp implements the Model Context Protocol (MCP) server that exposes
// Gemini's large context window to AI coding assistants.
//
// The server exposes four tools:
//   - summarize_project: Analyze a whole project directory and return a
//     structured summary (overview, tech stack, architecture, components)
//   - analyze_files: Answer an arbitrary query about the files in a
//     directory, chunking through Gemini when the content is too large
//   - explain_code: Explain how the code in a directory works
//   - get_config: Report the active server configuration
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. The server reads
// requests from stdin and writes responses to stdout, so all logging goes to
// stderr.
//
// # Tool: summarize_project
//
//	Request:
//	{
//	  "name": "summarize_project",
//	  "arguments": {
//	    "directory_path": "/path/to/project",
//	    "focus_areas": ["architecture", "security"]
//	  }
//	}
//
//	Response (large project):
//	{
//	  "status": "success",
//	  "overview": "...",
//	  "tech_stack": ["Python", "FastAPI"],
//	  "architecture": "...",
//	  "structure": { "name": "project", ... },
//	  "statistics": { "total_files": 247, "total_tokens": 812345, ... },
//	  "analysis_details": { "files_analyzed": 247, "used_large_model": true, ... }
//	}
//
// When the collected content fits within the small model's context, the
// combined content is returned directly instead of being sent to Gemini.
//
// # Error Handling
//
// Tool-level failures (bad path, no matching files, analysis errors) are
// reported inside the tool result as {"status": "failed", "error": "..."};
// they never surface as transport errors. Only protocol-level problems reach
// the JSON-RPC error channel.
//
// # MCP Client Configuration
//
// Configure in Claude Code's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "gemini-context": {
//	      "command": "/usr/local/bin/gemini-context-mcp",
//	      "env": {
//	        "GEMINI_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
package mcp
