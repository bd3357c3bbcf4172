package summary

import "strings"

// AnalysisQuery builds the project-analysis prompt whose answer ParseSections
// understands. Focus areas, when given, narrow the request.
func AnalysisQuery(focusAreas []string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this project and provide a structured summary with the following sections:\n\n")
	sb.WriteString("1. **Overview**: A brief description of what this project does\n")
	sb.WriteString("2. **Technology Stack**: Languages, frameworks, and tools used\n")
	sb.WriteString("3. **Architecture**: How the code is organized and structured\n")
	sb.WriteString("4. **Main Components**: The key modules and their responsibilities\n")
	sb.WriteString("5. **Key Features**: The main functionality the project provides\n")
	sb.WriteString("6. **Dependencies**: Notable external dependencies\n")
	sb.WriteString("7. **Code Quality**: Observations about code organization and practices\n")

	if len(focusAreas) > 0 {
		sb.WriteString("\nPay particular attention to: ")
		sb.WriteString(strings.Join(focusAreas, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}
