package chunker

import (
	"regexp"
	"sort"
	"strings"
)

// boundaryPatterns maps a language tag to the line-anchored patterns that mark
// the start of a function, class, or type declaration. Boundary quality is a
// heuristic; the chunker only ever prefers these over a hard cut.
var boundaryPatterns = map[string][]*regexp.Regexp{
	"python": {
		regexp.MustCompile(`^class\s+\w+`),
		regexp.MustCompile(`^def\s+\w+`),
		regexp.MustCompile(`^async\s+def\s+\w+`),
	},
	"javascript": {
		regexp.MustCompile(`^function\s+\w+\s*\(`),
		regexp.MustCompile(`^const\s+\w+\s*=\s*(?:async\s*)?\(.*?\)\s*=>`),
		regexp.MustCompile(`^class\s+\w+`),
		regexp.MustCompile(`^export\s+(?:default\s+)?(?:function|class|const)`),
	},
	"typescript": {
		regexp.MustCompile(`^function\s+\w+\s*\(`),
		regexp.MustCompile(`^const\s+\w+\s*=\s*(?:async\s*)?\(.*?\)\s*=>`),
		regexp.MustCompile(`^class\s+\w+`),
		regexp.MustCompile(`^export\s+(?:default\s+)?(?:function|class|const|interface|type)`),
		regexp.MustCompile(`^interface\s+\w+`),
		regexp.MustCompile(`^type\s+\w+`),
	},
	"java": {
		regexp.MustCompile(`^(?:public|private|protected)?\s*class\s+\w+`),
		regexp.MustCompile(`^(?:public|private|protected)?\s*(?:static\s+)?(?:final\s+)?\w+\s+\w+\s*\(`),
	},
	"cpp": {
		regexp.MustCompile(`^class\s+\w+`),
		regexp.MustCompile(`^struct\s+\w+`),
		regexp.MustCompile(`^\w+(?:\s+\w+)*\s+\w+\s*\(`),
	},
	"go": {
		regexp.MustCompile(`^func\s+`),
		regexp.MustCompile(`^type\s+\w+`),
		regexp.MustCompile(`^(?:const|var)\s*\(`),
	},
	"rust": {
		regexp.MustCompile(`^(?:pub\s+)?fn\s+\w+`),
		regexp.MustCompile(`^(?:pub\s+)?(?:struct|enum|trait|impl)\s`),
	},
}

// FindBoundaries returns the 0-based line numbers of candidate split points
// in content, sorted ascending. Unrecognized languages yield nil; this never
// fails.
func FindBoundaries(content, language string) []int {
	patterns, ok := boundaryPatterns[strings.ToLower(language)]
	if !ok {
		return nil
	}

	lines := strings.Split(content, "\n")
	seen := make(map[int]bool)
	var boundaries []int

	for i, line := range lines {
		for _, pattern := range patterns {
			if pattern.MatchString(line) {
				if !seen[i] {
					seen[i] = true
					boundaries = append(boundaries, i)
				}
				break
			}
		}
	}

	sort.Ints(boundaries)
	return boundaries
}
