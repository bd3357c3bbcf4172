// Package collector discovers and loads project files for analysis.
package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/zerubeus/gemini-claude-code-mcp/internal/chunker"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/config"
	"github.com/zerubeus/gemini-claude-code-mcp/internal/tokenizer"
	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// Collection errors
var (
	ErrPathNotFound = errors.New("path does not exist")
	ErrNotDirectory = errors.New("path is not a directory")
)

// Collector walks a directory tree and loads the files matching a pattern.
// Files above the size cap and files that cannot be read are logged and
// skipped, never fatal.
type Collector struct {
	extensions     []string
	ignorePatterns []string
	maxFileBytes   int64
	counter        tokenizer.Counter
	logger         *slog.Logger
}

// New creates a Collector from configuration
func New(cfg config.CollectorConfig, counter tokenizer.Counter, logger *slog.Logger) *Collector {
	maxBytes := cfg.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &Collector{
		extensions:     cfg.Extensions,
		ignorePatterns: cfg.IgnorePatterns,
		maxFileBytes:   maxBytes,
		counter:        counter,
		logger:         logger,
	}
}

// Collect discovers and loads all files under root matching the pattern
func (c *Collector) Collect(root string, pattern types.FilePattern) ([]types.CollectedFile, error) {
	paths, err := c.Discover(root, pattern)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	files := make([]types.CollectedFile, 0, len(paths))
	for _, path := range paths {
		file, ok := c.Load(path, absRoot)
		if ok {
			files = append(files, file)
		}
	}

	c.logger.Info("collected files", "root", absRoot, "count", len(files))
	return files, nil
}

// Discover walks the tree under root and returns the absolute paths of files
// matching the pattern, without reading their content.
func (c *Collector) Discover(root string, pattern types.FilePattern) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	ignore := make([]string, 0, len(c.ignorePatterns)+len(pattern.Exclude))
	ignore = append(ignore, c.ignorePatterns...)
	ignore = append(ignore, pattern.Exclude...)
	if pattern.RespectGitignore {
		ignore = append(ignore, loadGitignore(absRoot)...)
	}

	includes := pattern.Include
	if len(includes) == 0 {
		includes = make([]string, 0, len(c.extensions))
		for _, ext := range c.extensions {
			includes = append(includes, "**/*"+ext)
		}
	}

	var paths []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			c.logger.Warn("skipping unreadable entry", "path", path, "error", err)
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && matchesAny(rel, info.Name(), ignore) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchesAny(rel, info.Name(), ignore) {
			return nil
		}
		if matchesAny(rel, info.Name(), includes) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// Load reads one discovered file, returning false when it should be skipped
func (c *Collector) Load(path, root string) (types.CollectedFile, bool) {
	info, err := os.Stat(path)
	if err != nil {
		c.logger.Warn("failed to stat file", "path", path, "error", err)
		return types.CollectedFile{}, false
	}

	if info.Size() > c.maxFileBytes {
		c.logger.Warn("skipping large file", "path", path, "bytes", info.Size())
		return types.CollectedFile{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Warn("failed to read file", "path", path, "error", err)
		return types.CollectedFile{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	content := string(data)
	return types.CollectedFile{
		Path:         path,
		RelativePath: filepath.ToSlash(rel),
		Content:      content,
		Size:         info.Size(),
		TokenCount:   c.counter.Count(content),
		Language:     chunker.LanguageForPath(path),
	}, true
}

// ScoreRelevance assigns each file a keyword-based relevance score against
// the query, normalized by file size, and sorts files best-first.
func (c *Collector) ScoreRelevance(files []types.CollectedFile, query string) []types.CollectedFile {
	terms := strings.Fields(strings.ToLower(query))

	for i := range files {
		score := 0.0
		contentLower := strings.ToLower(files[i].Content)
		pathLower := strings.ToLower(files[i].RelativePath)

		for _, term := range terms {
			score += float64(strings.Count(contentLower, term)) * 0.1
			if strings.Contains(pathLower, term) {
				score += 5.0
			}
		}

		if files[i].TokenCount > 0 {
			score = score / (float64(files[i].TokenCount) / 1000.0)
		}
		if score > 100.0 {
			score = 100.0
		}
		files[i].RelevanceScore = score
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].RelevanceScore > files[j].RelevanceScore
	})
	return files
}

// matchesAny checks a relative path and its basename against a pattern list.
// Glob patterns use doublestar matching; plain patterns match a path
// component or substring, mirroring common ignore-file conventions.
func matchesAny(rel, base string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
			continue
		}
		trimmed := strings.TrimSuffix(pattern, "/")
		if base == trimmed || strings.Contains(rel, trimmed) {
			return true
		}
	}
	return false
}

// loadGitignore reads simple patterns from root/.gitignore; comments and
// blank lines are dropped. Nested gitignore files are not consulted.
func loadGitignore(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimPrefix(line, "/"))
	}
	return patterns
}
