package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// charCounter is a deterministic stand-in counter: one token per character.
// Budgets in these tests are therefore expressed in characters.
type charCounter struct{}

func (charCounter) Count(text string) int { return len(text) }

func repeatLines(line string, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func TestChunkFitsWhole(t *testing.T) {
	c := New(charCounter{})
	content := "line one\nline two"

	chunks := c.Chunk(content, "text", 1000, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartLine)
	assert.Equal(t, 1, chunks[0].EndLine)
}

func TestChunkCoversAllLines(t *testing.T) {
	c := New(charCounter{})
	content := repeatLines("0123456789", 50)

	chunks := c.Chunk(content, "text", 60, 0)
	require.Greater(t, len(chunks), 1)

	// First chunk starts at line 0, last ends at the final line, and no gap
	// opens between consecutive chunks
	assert.Equal(t, 0, chunks[0].StartLine)
	assert.Equal(t, 49, chunks[len(chunks)-1].EndLine)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].StartLine, chunks[i-1].EndLine+1,
			"gap between chunk %d and %d", i-1, i)
	}
}

func TestChunkRespectsBudget(t *testing.T) {
	c := New(charCounter{})
	content := repeatLines("0123456789", 40)

	budget := 55
	chunks := c.Chunk(content, "text", budget, 0)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, chunk.TokenCount, budget, "chunk %d over budget", i)
		assert.NoError(t, chunk.Validate())
	}
}

func TestChunkOversizedSingleLine(t *testing.T) {
	c := New(charCounter{})
	huge := strings.Repeat("x", 200)
	content := "short\n" + huge + "\nshort"

	chunks := c.Chunk(content, "text", 50, 0)
	require.NotEmpty(t, chunks)

	// The oversized line is never truncated or split mid-line: any chunk
	// touching it carries it whole
	carriers := 0
	for _, chunk := range chunks {
		if strings.Contains(chunk.Text, "xxxx") {
			assert.Contains(t, chunk.Text, huge)
			carriers++
		}
	}
	assert.GreaterOrEqual(t, carriers, 1)
}

func TestChunkPrefersBoundaries(t *testing.T) {
	c := New(charCounter{})

	// Two "functions" of ten lines each; the budget fits the first function
	// plus part of the second, so the cut should land just before the second
	// def line rather than at the overflow point.
	var lines []string
	lines = append(lines, "def first():")
	for i := 0; i < 9; i++ {
		lines = append(lines, "    pass  # aa")
	}
	lines = append(lines, "def second():")
	for i := 0; i < 9; i++ {
		lines = append(lines, "    pass  # bb")
	}
	content := strings.Join(lines, "\n")

	chunks := c.Chunk(content, "python", 200, 0)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, 9, chunks[0].EndLine)
	assert.NotContains(t, chunks[0].Text, "def second():")
	assert.Contains(t, chunks[1].Text, "def second():")
}

func TestChunkOverlapCarriesTrailingLines(t *testing.T) {
	c := New(charCounter{})
	content := repeatLines("0123456789", 30)

	// Each line costs 11 tokens; a 22-token overlap budget carries two lines
	chunks := c.Chunk(content, "text", 60, 22)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, chunks[0].EndLine-2, chunks[1].StartLine)
}

func TestChunkOverlapMayExceedBudget(t *testing.T) {
	c := New(charCounter{})
	content := repeatLines("0123456789", 30)

	// A large overlap restarts each chunk well before the previous cut, so
	// chunks after the first can run past the chunk budget. The excess is
	// bounded by the overlap budget, and coverage still holds.
	budget := 60
	overlap := 55
	chunks := c.Chunk(content, "text", budget, overlap)
	require.Greater(t, len(chunks), 1)

	over := 0
	for i, chunk := range chunks {
		if chunk.TokenCount > budget {
			over++
		}
		assert.LessOrEqual(t, chunk.TokenCount, budget+overlap, "chunk %d past overlap bound", i)
	}
	assert.Greater(t, over, 0, "expected overlap restarts to push some chunk past the budget")

	assert.Equal(t, 0, chunks[0].StartLine)
	assert.Equal(t, 29, chunks[len(chunks)-1].EndLine)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].StartLine, chunks[i-1].EndLine+1,
			"gap between chunk %d and %d", i-1, i)
	}
}

func TestSimpleChunkNoOverlap(t *testing.T) {
	c := New(charCounter{})
	content := repeatLines("0123456789", 30)

	chunks := c.SimpleChunk(content, 60)
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].EndLine+1, chunks[i].StartLine)
	}
	assert.Equal(t, 29, chunks[len(chunks)-1].EndLine)
}

func TestSimpleChunkFitsWhole(t *testing.T) {
	c := New(charCounter{})
	chunks := c.SimpleChunk("tiny", 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].Text)
}

func TestFindBoundariesPython(t *testing.T) {
	content := strings.Join([]string{
		"import os",
		"",
		"class Widget:",
		"    def render(self):",
		"        pass",
		"",
		"def main():",
		"    pass",
		"",
		"async def fetch():",
		"    pass",
	}, "\n")

	boundaries := FindBoundaries(content, "python")
	// Indented def lines are not module-level boundaries
	assert.Equal(t, []int{2, 6, 9}, boundaries)
}

func TestFindBoundariesGo(t *testing.T) {
	content := strings.Join([]string{
		"package main",
		"",
		"type Config struct {",
		"}",
		"",
		"func main() {",
		"}",
	}, "\n")

	boundaries := FindBoundaries(content, "go")
	assert.Equal(t, []int{2, 5}, boundaries)
}

func TestFindBoundariesUnknownLanguage(t *testing.T) {
	assert.Nil(t, FindBoundaries("def foo():", "cobol"))
	assert.Nil(t, FindBoundaries("anything", "text"))
}

func TestLanguageForPath(t *testing.T) {
	tests := map[string]string{
		"main.py":         "python",
		"src/app.tsx":     "typescript",
		"lib/util.js":     "javascript",
		"cmd/main.go":     "go",
		"core.rs":         "rust",
		"Service.java":    "java",
		"legacy.cpp":      "cpp",
		"README":          "text",
		"notes.unknown":   "text",
		"weird.name.PY":   "python",
		"path/to/file.rb": "ruby",
	}
	for path, want := range tests {
		assert.Equal(t, want, LanguageForPath(path), "path %q", path)
	}
}

func TestChunkEmptyContent(t *testing.T) {
	c := New(charCounter{})
	chunks := c.Chunk("", "python", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0].Text)
}
