package synthesis

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentTitle heads the consolidated memory document.
const DocumentTitle = "# Claude Code Memory"

// timestampLayout renders the "Last synthesized" line.
const timestampLayout = "2006-01-02 15:04"

// CategoryOrder is the order known categories appear in the document.
var CategoryOrder = []string{
	"work_context",
	"ongoing_projects",
	"preferences",
	"technical_style",
	"tools_and_workflows",
}

var displayNames = map[string]string{
	"work_context":        "Work Context",
	"ongoing_projects":    "Ongoing Projects",
	"preferences":         "Preferences",
	"technical_style":     "Technical Style",
	"tools_and_workflows": "Tools & Workflows",
}

var titleCaser = cases.Title(language.Und)

// DisplayName returns the section heading for a category. Unknown categories
// have underscores replaced by spaces and are title-cased.
func DisplayName(category string) string {
	if name, ok := displayNames[category]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

// orderedCategories returns known categories in CategoryOrder followed by
// the remaining categories in encounter order. Empty groups are skipped.
func orderedCategories(groups map[string][]item, encounter []string) []string {
	var out []string
	known := map[string]bool{}
	for _, category := range CategoryOrder {
		known[category] = true
		if len(groups[category]) > 0 {
			out = append(out, category)
		}
	}
	for _, category := range encounter {
		if !known[category] && len(groups[category]) > 0 {
			out = append(out, category)
		}
	}
	return out
}

// render builds the markdown document for the deduplicated groups.
func render(groups map[string][]item, order []string, at time.Time) string {
	lines := []string{
		DocumentTitle,
		"",
		"*Last synthesized: " + at.Format(timestampLayout) + "*",
		"",
	}

	for _, category := range order {
		lines = append(lines, "## "+DisplayName(category))
		for _, it := range groups[category] {
			lines = append(lines, "- "+it.content)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// InitialDocument is written by init before any synthesis has run.
func InitialDocument() string {
	return strings.Join([]string{
		DocumentTitle,
		"",
		"*No memories synthesized yet. Memories are extracted at the end of each session and collected here.*",
		"",
		"## How It Works",
		"- After each session, memorable information is extracted",
		"- Every synthesis interval, memories are merged into this file",
		"- Run `recall synthesize --force` to merge them now",
		"- Run `recall status` to check the system status",
		"",
	}, "\n")
}
