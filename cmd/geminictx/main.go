package main

import "github.com/zerubeus/gemini-claude-code-mcp/internal/cli"

func main() {
	cli.Execute()
}
