package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/papercomputeco/recall/pkg/memory"
	"github.com/papercomputeco/recall/pkg/transcript"
)

// MaxHeuristicFacts caps the heuristic tier's output; the earliest facts are
// kept.
const MaxHeuristicFacts = 15

// heuristicInput is what the heuristic tier reads.
type heuristicInput struct {
	turns       []transcript.Turn
	project     string
	projectPath string

	// reportProject is set when the working directory differs from the
	// invocation directory.
	reportProject bool
}

// heuristicFacts runs every rule table over the conversation.
func heuristicFacts(in heuristicInput) []memory.Fact {
	var facts []memory.Fact
	seen := map[string]bool{}
	add := func(category, content string) {
		key := strings.ToLower(content)
		if content == "" || seen[key] {
			return
		}
		seen[key] = true
		facts = append(facts, memory.Fact{Category: category, Content: content})
	}

	for _, turn := range in.turns {
		if turn.Role != transcript.RoleUser {
			continue
		}
		for _, sentence := range userSentences(turn.Text) {
			if category, ok := classifySentence(sentence); ok {
				add(category, sentence)
			}
		}
	}

	full := fullText(in.turns)

	if exts := frequentExtensions(full); len(exts) > 0 {
		add(CategoryTechnicalStyle, "Works with "+strings.Join(exts, ", ")+" files")
	}

	if tools := mentionedTools(full); len(tools) > 0 {
		add(CategoryToolsWorkflows, "Uses "+strings.Join(tools, ", "))
	}

	if in.reportProject && in.project != "" {
		add(CategoryOngoingProjects, fmt.Sprintf("Working on the %s project (%s)", in.project, in.projectPath))
	}

	if acts := detectedActivities(full); len(acts) > 0 {
		add(CategoryToolsWorkflows, "Session activities: "+strings.Join(acts, ", "))
	}

	if len(facts) > MaxHeuristicFacts {
		facts = facts[:MaxHeuristicFacts]
	}
	return facts
}

// userSentences splits text on sentence terminators and line breaks and keeps
// sentences of a plausible length.
func userSentences(text string) []string {
	var out []string
	for _, part := range sentenceSplit.Split(text, -1) {
		sentence := strings.TrimSpace(part)
		n := utf8.RuneCountInString(sentence)
		if n < minSentenceChars || n > maxSentenceChars {
			continue
		}
		out = append(out, sentence)
	}
	return out
}

func classifySentence(sentence string) (string, bool) {
	for _, rule := range sentenceRules {
		if rule.Pattern.MatchString(sentence) {
			return rule.Category, true
		}
	}
	return "", false
}

func fullText(turns []transcript.Turn) string {
	texts := make([]string, len(turns))
	for i, turn := range turns {
		texts[i] = turn.Text
	}
	return strings.Join(texts, "\n")
}

// frequentExtensions returns up to maxExtensions ".ext" labels mentioned at
// least minMentions times, most frequent first with ties in alphabetical order.
func frequentExtensions(text string) []string {
	counts := map[string]int{}
	for _, match := range extensionPattern.FindAllStringSubmatch(text, -1) {
		counts[strings.ToLower(match[1])]++
	}

	var exts []string
	for ext, n := range counts {
		if n >= minMentions {
			exts = append(exts, ext)
		}
	}

	sort.Slice(exts, func(i, j int) bool {
		if counts[exts[i]] != counts[exts[j]] {
			return counts[exts[i]] > counts[exts[j]]
		}
		return exts[i] < exts[j]
	})

	if len(exts) > maxExtensions {
		exts = exts[:maxExtensions]
	}
	for i, ext := range exts {
		exts[i] = "." + ext
	}
	return exts
}

// mentionedTools returns lexicon names with at least minMentions whole-word
// matches, in lexicon order.
func mentionedTools(text string) []string {
	var names []string
	for _, entry := range toolLexicon {
		if len(entry.Pattern.FindAllStringIndex(text, -1)) >= minMentions {
			names = append(names, entry.Name)
		}
	}
	return names
}

func detectedActivities(text string) []string {
	var names []string
	for _, act := range activities {
		if len(act.Pattern.FindAllStringIndex(text, -1)) >= minActivityHits {
			names = append(names, act.Name)
		}
	}
	return names
}
