package summary

import "strings"

// Sections is the structured form of the model's markdown answer
type Sections struct {
	Overview     string   `json:"overview"`
	TechStack    []string `json:"tech_stack"`
	Architecture string   `json:"architecture"`
	Components   []string `json:"components"`
	KeyFeatures  []string `json:"key_features"`
	Dependencies []string `json:"dependencies"`
	CodeQuality  string   `json:"code_quality"`
}

// sectionHeaders maps the markdown headers the analysis prompt asks for to
// section names. Numbered and plain bold variants are both accepted.
var sectionHeaders = map[string]string{
	"overview":         "overview",
	"technology stack": "tech_stack",
	"architecture":     "architecture",
	"main components":  "components",
	"key features":     "key_features",
	"dependencies":     "dependencies",
	"code quality":     "code_quality",
}

// ParseSections splits the model's markdown answer into the sections the
// analysis prompt requested. When no recognizable headers are present the
// whole response becomes the overview.
func ParseSections(response string) Sections {
	var sections Sections
	current := ""
	var buf []string

	flush := func() {
		if current == "" || len(buf) == 0 {
			buf = buf[:0]
			return
		}
		switch current {
		case "overview":
			sections.Overview = strings.TrimSpace(strings.Join(buf, "\n"))
		case "tech_stack":
			sections.TechStack = bulletItems(buf)
		case "architecture":
			sections.Architecture = strings.TrimSpace(strings.Join(buf, "\n"))
		case "components":
			sections.Components = bulletItems(buf)
		case "key_features":
			sections.KeyFeatures = bulletItems(buf)
		case "dependencies":
			sections.Dependencies = bulletItems(buf)
		case "code_quality":
			sections.CodeQuality = strings.TrimSpace(strings.Join(buf, "\n"))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(response, "\n") {
		if name, ok := headerName(line); ok {
			flush()
			current = name
			continue
		}
		if current != "" && strings.TrimSpace(line) != "" {
			buf = append(buf, line)
		}
	}
	flush()

	if sections.Overview == "" && sections.Architecture == "" &&
		len(sections.TechStack) == 0 && len(sections.Components) == 0 &&
		len(sections.KeyFeatures) == 0 && len(sections.Dependencies) == 0 &&
		sections.CodeQuality == "" {
		sections.Overview = strings.TrimSpace(response)
	}

	return sections
}

// headerName recognizes lines like "**Overview**", "1. **Overview**:" or
// "## Overview" and returns the canonical section name.
func headerName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "#")
	trimmed = strings.TrimSpace(trimmed)

	// Strip a leading "N." ordinal
	if i := strings.Index(trimmed, "."); i > 0 && i <= 2 && isDigits(trimmed[:i]) {
		trimmed = strings.TrimSpace(trimmed[i+1:])
	}

	// The colon may sit inside or outside the bold markers
	trimmed = strings.TrimSuffix(trimmed, ":")
	trimmed = strings.Trim(trimmed, "*")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), ":")

	name, ok := sectionHeaders[strings.ToLower(strings.TrimSpace(trimmed))]
	return name, ok
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// bulletItems extracts list items from section lines, falling back to the
// raw lines when no bullets are present
func bulletItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(trimmed, prefix) {
				trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
				break
			}
		}
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
