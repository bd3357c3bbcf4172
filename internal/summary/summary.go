// Package summary assembles project content for analysis and shapes the
// model's answer into structured sections.
package summary

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// Combine concatenates collected files into one annotated document: a
// project header followed by each file's content under a metadata header.
func Combine(projectPath string, files []types.CollectedFile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Project: %s\n", path.Base(strings.ReplaceAll(projectPath, "\\", "/"))))
	sb.WriteString(fmt.Sprintf("# Path: %s\n", projectPath))
	sb.WriteString(fmt.Sprintf("# Total Files: %d\n", len(files)))
	sb.WriteString("\n---\n")

	for _, file := range files {
		sb.WriteString(fmt.Sprintf("\n### File: %s\n", file.RelativePath))
		sb.WriteString(fmt.Sprintf("Language: %s\n", file.Language))
		sb.WriteString(fmt.Sprintf("Size: %d bytes | Tokens: %d\n", file.Size, file.TokenCount))
		sb.WriteString("```\n")
		sb.WriteString(file.Content)
		sb.WriteString("\n```\n")
	}

	return sb.String()
}

// Structure builds a hierarchical directory tree from the collected files,
// suitable for JSON serialization.
func Structure(projectName string, files []types.CollectedFile) map[string]any {
	children := make(map[string]any)

	for _, file := range files {
		parts := strings.Split(file.RelativePath, "/")
		current := children

		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = map[string]any{
					"type":     "directory",
					"children": map[string]any{},
				}
				current[part] = next
			}
			current = next["children"].(map[string]any)
		}

		current[parts[len(parts)-1]] = map[string]any{
			"type":     "file",
			"language": file.Language,
			"size":     file.Size,
			"tokens":   file.TokenCount,
		}
	}

	return map[string]any{
		"name":     projectName,
		"type":     "directory",
		"children": children,
	}
}

// Statistics summarizes a collection of files
type Statistics struct {
	TotalFiles     int            `json:"total_files"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalSizeMB    float64        `json:"total_size_mb"`
	TotalTokens    int            `json:"total_tokens"`
	Languages      map[string]int `json:"languages"`
	FileTypes      map[string]int `json:"file_types"`
}

// BuildStatistics computes per-language and per-extension counts and totals
func BuildStatistics(files []types.CollectedFile) Statistics {
	stats := Statistics{
		Languages: make(map[string]int),
		FileTypes: make(map[string]int),
	}

	for _, file := range files {
		stats.TotalFiles++
		stats.TotalSizeBytes += file.Size
		stats.TotalTokens += file.TokenCount

		lang := file.Language
		if lang == "" {
			lang = "unknown"
		}
		stats.Languages[lang]++

		ext := path.Ext(file.RelativePath)
		if ext == "" {
			ext = "no_extension"
		}
		stats.FileTypes[ext]++
	}

	stats.TotalSizeMB = float64(stats.TotalSizeBytes) / (1024 * 1024)
	return stats
}

// TopLanguages returns language names ordered by descending file count
func (s Statistics) TopLanguages() []string {
	langs := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if s.Languages[langs[i]] != s.Languages[langs[j]] {
			return s.Languages[langs[i]] > s.Languages[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}
