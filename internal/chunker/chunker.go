package chunker

import (
	"strings"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/tokenizer"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// Chunker splits content into token-budgeted chunks, preferring syntactic
// boundaries for recognized languages and carrying a trailing overlap into
// each following chunk.
type Chunker struct {
	counter tokenizer.Counter
}

// New creates a Chunker using the given token counter
func New(counter tokenizer.Counter) *Chunker {
	return &Chunker{counter: counter}
}

// Chunk splits content into chunks of at most chunkBudget tokens where
// possible. Cut points prefer boundaries reported by FindBoundaries; when no
// usable boundary exists the cut falls exactly at the overflowing line. A
// single line whose own token count exceeds the budget is emitted whole as
// its own chunk, never truncated or split mid-line.
func (c *Chunker) Chunk(content, language string, chunkBudget, overlapBudget int) []types.ContentChunk {
	total := c.counter.Count(content)
	if total <= chunkBudget {
		return c.wholeContentChunk(content, total)
	}

	boundaries := FindBoundaries(content, language)
	lines := strings.Split(content, "\n")

	var chunks []types.ContentChunk
	currentStart := 0
	currentLines := make([]string, 0, 64)
	currentTokens := 0

	for i, line := range lines {
		lineTokens := c.counter.Count(line + "\n")

		if currentTokens+lineTokens > chunkBudget && len(currentLines) > 0 {
			// Find the best boundary at or before this line that keeps the
			// chunk under budget. Boundaries are sorted, so the last match
			// is the one closest to the overflow point.
			cutPoint := i
			for _, b := range boundaries {
				if b <= currentStart || b > i {
					continue
				}
				candidate := strings.Join(lines[currentStart:b], "\n")
				if c.counter.Count(candidate) <= chunkBudget {
					cutPoint = b
				}
			}

			chunkEnd := cutPoint - 1
			chunks = append(chunks, c.makeChunk(lines, currentStart, chunkEnd))

			// Start the next chunk with a trailing overlap, derived from the
			// overlap token budget and the observed per-line cost. The
			// estimate is rough; zero cost counts as one token.
			perLine := lineTokens
			if perLine == 0 {
				perLine = 1
			}
			overlapLines := overlapBudget / perLine
			overlapStart := chunkEnd - overlapLines
			if overlapStart < 0 {
				overlapStart = 0
			}

			currentStart = overlapStart
			currentLines = append(currentLines[:0], lines[overlapStart:i+1]...)
			currentTokens = c.counter.Count(strings.Join(currentLines, "\n"))
		} else {
			currentLines = append(currentLines, line)
			currentTokens += lineTokens
		}
	}

	if len(currentLines) > 0 {
		chunks = append(chunks, c.makeChunk(lines, currentStart, len(lines)-1))
	}

	return chunks
}

// SimpleChunk splits content by token budget alone, accumulating lines with
// no boundary search and no overlap.
func (c *Chunker) SimpleChunk(content string, chunkBudget int) []types.ContentChunk {
	total := c.counter.Count(content)
	if total <= chunkBudget {
		return c.wholeContentChunk(content, total)
	}

	lines := strings.Split(content, "\n")

	var chunks []types.ContentChunk
	startLine := 0
	currentLines := make([]string, 0, 64)
	currentTokens := 0

	for i, line := range lines {
		lineTokens := c.counter.Count(line + "\n")

		if currentTokens+lineTokens > chunkBudget && len(currentLines) > 0 {
			chunks = append(chunks, c.makeChunk(lines, startLine, i-1))
			startLine = i
			currentLines = append(currentLines[:0], line)
			currentTokens = lineTokens
		} else {
			currentLines = append(currentLines, line)
			currentTokens += lineTokens
		}
	}

	if len(currentLines) > 0 {
		chunks = append(chunks, c.makeChunk(lines, startLine, len(lines)-1))
	}

	return chunks
}

func (c *Chunker) wholeContentChunk(content string, tokens int) []types.ContentChunk {
	lineCount := strings.Count(content, "\n") + 1
	return []types.ContentChunk{{
		Text:       content,
		StartLine:  0,
		EndLine:    lineCount - 1,
		TokenCount: tokens,
	}}
}

func (c *Chunker) makeChunk(lines []string, start, end int) types.ContentChunk {
	if end < start {
		end = start
	}
	if end > len(lines)-1 {
		end = len(lines) - 1
	}
	text := strings.Join(lines[start:end+1], "\n")
	return types.ContentChunk{
		Text:       text,
		StartLine:  start,
		EndLine:    end,
		TokenCount: c.counter.Count(text),
	}
}
