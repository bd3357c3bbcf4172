package collector

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

type charCounter struct{}

func (charCounter) Count(text string) int { return len(text) }

func testCollector(extensions []string, ignore []string, maxBytes int64) *Collector {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.CollectorConfig{
		Extensions:     extensions,
		IgnorePatterns: ignore,
		MaxFileBytes:   maxBytes,
	}, charCounter{}, logger)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func relPaths(files []types.CollectedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelativePath
	}
	return out
}

func TestCollectBasic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "print('hi')")
	writeFile(t, root, "pkg/util.py", "def util(): pass")
	writeFile(t, root, "README.md", "# readme")
	writeFile(t, root, "image.png", "binary")

	c := testCollector([]string{".py", ".md"}, nil, 0)
	files, err := c.Collect(root, types.FilePattern{})
	require.NoError(t, err)

	paths := relPaths(files)
	assert.ElementsMatch(t, []string{"main.py", "pkg/util.py", "README.md"}, paths)
}

func TestCollectPathErrors(t *testing.T) {
	c := testCollector([]string{".py"}, nil, 0)

	_, err := c.Collect(filepath.Join(t.TempDir(), "missing"), types.FilePattern{})
	assert.ErrorIs(t, err, ErrPathNotFound)

	root := t.TempDir()
	writeFile(t, root, "file.py", "x")
	_, err = c.Collect(filepath.Join(root, "file.py"), types.FilePattern{})
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestCollectIncludePatternsOverrideExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x")
	writeFile(t, root, "b.js", "x")

	c := testCollector([]string{".py", ".js"}, nil, 0)
	files, err := c.Collect(root, types.FilePattern{Include: []string{"**/*.js"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.js"}, relPaths(files))
}

func TestCollectExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", "x")
	writeFile(t, root, "tests/test_skip.py", "x")

	c := testCollector([]string{".py"}, nil, 0)
	files, err := c.Collect(root, types.FilePattern{Exclude: []string{"tests"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.py"}, relPaths(files))
}

func TestCollectIgnoresConfiguredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "x")
	writeFile(t, root, "node_modules/dep/index.py", "x")
	writeFile(t, root, "__pycache__/app.cpython.py", "x")

	c := testCollector([]string{".py"}, []string{"node_modules", "__pycache__"}, 0)
	files, err := c.Collect(root, types.FilePattern{})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, relPaths(files))
}

func TestCollectRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "# build output\nbuild/\nsecret.py\n")
	writeFile(t, root, "app.py", "x")
	writeFile(t, root, "secret.py", "x")
	writeFile(t, root, "build/out.py", "x")

	c := testCollector([]string{".py"}, nil, 0)

	files, err := c.Collect(root, types.FilePattern{RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, relPaths(files))

	// Without the flag the gitignore is not consulted
	files, err = c.Collect(root, types.FilePattern{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app.py", "secret.py", "build/out.py"}, relPaths(files))
}

func TestCollectSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.py", "ok")
	writeFile(t, root, "big.py", strings.Repeat("x", 100))

	c := testCollector([]string{".py"}, nil, 50)
	files, err := c.Collect(root, types.FilePattern{})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.py"}, relPaths(files))
}

func TestLoadPopulatesMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "print('hello')")

	c := testCollector([]string{".py"}, nil, 0)
	files, err := c.Collect(root, types.FilePattern{})
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "src/app.py", f.RelativePath)
	assert.Equal(t, "print('hello')", f.Content)
	assert.Equal(t, int64(14), f.Size)
	assert.Equal(t, 14, f.TokenCount)
	assert.Equal(t, "python", f.Language)
	assert.True(t, filepath.IsAbs(f.Path))
}

func TestScoreRelevance(t *testing.T) {
	c := testCollector(nil, nil, 0)

	files := []types.CollectedFile{
		{RelativePath: "db/storage.py", Content: "storage layer", TokenCount: 100},
		{RelativePath: "auth/login.py", Content: "auth auth auth login", TokenCount: 100},
		{RelativePath: "misc.py", Content: "nothing relevant", TokenCount: 100},
	}

	sorted := c.ScoreRelevance(files, "auth login")
	assert.Equal(t, "auth/login.py", sorted[0].RelativePath)
	assert.Greater(t, sorted[0].RelevanceScore, sorted[1].RelevanceScore)
	assert.Equal(t, "misc.py", sorted[2].RelativePath)
	assert.Equal(t, 0.0, sorted[2].RelevanceScore)
}

func TestScoreRelevanceCapped(t *testing.T) {
	c := testCollector(nil, nil, 0)
	files := []types.CollectedFile{
		{RelativePath: "auth.py", Content: strings.Repeat("auth ", 5000), TokenCount: 1},
	}
	sorted := c.ScoreRelevance(files, "auth")
	assert.Equal(t, 100.0, sorted[0].RelevanceScore)
}

func TestMatchesAny(t *testing.T) {
	// Glob patterns
	assert.True(t, matchesAny("src/app.py", "app.py", []string{"**/*.py"}))
	assert.True(t, matchesAny("deep/a/b.pyc", "b.pyc", []string{"*.pyc"}))
	assert.False(t, matchesAny("src/app.go", "app.go", []string{"**/*.py"}))

	// Plain patterns match a path component or substring
	assert.True(t, matchesAny("node_modules/x.js", "node_modules", []string{"node_modules"}))
	assert.True(t, matchesAny("a/build/out", "build", []string{"build/"}))
	assert.False(t, matchesAny("src/app.py", "app.py", []string{"dist"}))
	assert.False(t, matchesAny("src/app.py", "app.py", []string{""}))
}
