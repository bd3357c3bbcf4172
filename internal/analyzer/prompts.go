package analyzer

import (
	"fmt"
	"strings"

	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// NoResponsePlaceholder is returned when every inference attempt came back
// empty; callers get a degraded answer, never an error, for transient
// failures.
const NoResponsePlaceholder = "No response from Gemini"

func singleChunkPrompt(query, content string) string {
	return fmt.Sprintf(
		"Analyze the following code/content and answer this query: %s\n\n"+
			"Content:\n%s\n\n"+
			"Provide a comprehensive answer based on the content above.",
		query, content)
}

func chunkPrompt(index, total int, chunk types.ContentChunk, query string) string {
	return fmt.Sprintf(
		"You are analyzing part %d of %d of a larger codebase.\n"+
			"Query: %s\n\n"+
			"Content (lines %d-%d):\n%s\n\n"+
			"Analyze this section and provide findings relevant to the query.\n"+
			"Note any references to other parts that might be in other chunks.",
		index+1, total, query, chunk.StartLine, chunk.EndLine, chunk.Text)
}

func synthesisPrompt(total int, query string, findings []string) string {
	return fmt.Sprintf(
		"You analyzed a large codebase in %d parts for this query: %s\n\n"+
			"Here are the findings from each part:\n\n%s\n\n"+
			"Synthesize these findings into a comprehensive answer. "+
			"Resolve any cross-references between parts and provide a cohesive response.",
		total, query, strings.Join(findings, "\n\n"))
}
