package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Category names produced by the heuristic tier.
const (
	CategoryWorkContext     = "work_context"
	CategoryPreferences     = "preferences"
	CategoryTechnicalStyle  = "technical_style"
	CategoryOngoingProjects = "ongoing_projects"
	CategoryToolsWorkflows  = "tools_and_workflows"
)

// sentenceRule tags a user sentence with a category when Pattern matches.
type sentenceRule struct {
	Category string
	Pattern  *regexp.Regexp
}

// sentenceRules are evaluated in order; the first match wins.
var sentenceRules = []sentenceRule{
	{CategoryPreferences, regexp.MustCompile(`(?i)\bI (?:prefer|like|want|always use)\b`)},
	{CategoryPreferences, regexp.MustCompile(`(?i)\bplease (?:always|never)\b`)},
	{CategoryPreferences, regexp.MustCompile(`(?i)\bdon'?t (?:use|add|include)\b`)},
	{CategoryWorkContext, regexp.MustCompile(`(?i)\b(?:I am|I['’]m) an? \b`)},
	{CategoryWorkContext, regexp.MustCompile(`(?i)\bI work (?:as|for|at)\b`)},
	{CategoryWorkContext, regexp.MustCompile(`(?i)\bour (?:team|codebase)\b`)},
	{CategoryOngoingProjects, regexp.MustCompile(`(?i)\b(?:I work on|I am working on|I['’]m working on|I am building|I['’]m building)\b`)},
}

// sentenceSplit separates sentences on terminators and line breaks.
var sentenceSplit = regexp.MustCompile(`[.!?\n]+`)

// knownExtensions are the file extensions counted by the technical style scan.
var knownExtensions = []string{
	"go", "py", "js", "jsx", "ts", "tsx", "rs", "java", "kt", "swift",
	"rb", "php", "c", "h", "cpp", "hpp", "cs", "scala", "ex", "exs",
	"sh", "sql", "html", "css", "scss", "vue", "svelte", "md",
	"json", "yaml", "yml", "toml", "proto", "tf", "lua", "dart", "zig",
}

// extensionPattern matches a known extension after a file name, a glob, a path
// separator, a quote or a bracket. A preceding dot is rejected so that "..go"
// is not a mention. Longer extensions come first so that "file.json" is not
// counted as "js".
var extensionPattern = func() *regexp.Regexp {
	exts := append([]string(nil), knownExtensions...)
	sort.Slice(exts, func(i, j int) bool {
		if len(exts[i]) != len(exts[j]) {
			return len(exts[i]) > len(exts[j])
		}
		return exts[i] < exts[j]
	})
	for i, ext := range exts {
		exts[i] = regexp.QuoteMeta(ext)
	}
	return regexp.MustCompile(`(?i)(?:^|[^.])\.(` + strings.Join(exts, "|") + `)\b`)
}()

// lexiconEntry is a framework or tool counted by whole-word mentions.
type lexiconEntry struct {
	Name    string
	Pattern *regexp.Regexp
}

func lexicon(name string, alternatives ...string) lexiconEntry {
	return lexiconEntry{
		Name:    name,
		Pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`),
	}
}

// toolLexicon lists frameworks and tools in reporting order.
var toolLexicon = []lexiconEntry{
	lexicon("React", `react`),
	lexicon("Vue", `vue`, `vuejs`),
	lexicon("Angular", `angular`),
	lexicon("Svelte", `svelte`, `sveltekit`),
	lexicon("Next.js", `next\.js`, `nextjs`),
	lexicon("Node.js", `node\.js`, `nodejs`),
	lexicon("Express", `express`),
	lexicon("Django", `django`),
	lexicon("Flask", `flask`),
	lexicon("FastAPI", `fastapi`),
	lexicon("Rails", `rails`),
	lexicon("Spring", `spring boot`, `spring`),
	lexicon("Tailwind", `tailwind`, `tailwindcss`),
	lexicon("Vite", `vite`),
	lexicon("Webpack", `webpack`),
	lexicon("Jest", `jest`),
	lexicon("Pytest", `pytest`),
	lexicon("Playwright", `playwright`),
	lexicon("GraphQL", `graphql`),
	lexicon("gRPC", `grpc`),
	lexicon("Docker", `docker`, `dockerfile`),
	lexicon("Kubernetes", `kubernetes`, `k8s`, `kubectl`),
	lexicon("Terraform", `terraform`),
	lexicon("PostgreSQL", `postgres`, `postgresql`, `psql`),
	lexicon("MySQL", `mysql`),
	lexicon("SQLite", `sqlite`, `sqlite3`),
	lexicon("Redis", `redis`),
	lexicon("MongoDB", `mongodb`, `mongo`),
	lexicon("Kafka", `kafka`),
	lexicon("AWS", `aws`),
	lexicon("GCP", `gcp`, `google cloud`),
	lexicon("Azure", `azure`),
	lexicon("GitHub Actions", `github actions`),
}

// activity is a coarse kind of work detected by keyword.
type activity struct {
	Name    string
	Pattern *regexp.Regexp
}

// activities are reported in this order.
var activities = []activity{
	{"version control", regexp.MustCompile(`(?i)\b(?:git (?:commit|push|pull|merge|rebase|checkout|branch|stash)|pull request|merge conflict|commit(?:s|ted)?)\b`)},
	{"testing", regexp.MustCompile(`(?i)\b(?:unit tests?|integration tests?|test suite|tests? (?:pass|fail)\w*|go test|npm test|pytest|coverage)\b`)},
	{"debugging", regexp.MustCompile(`(?i)\b(?:debug\w*|stack ?trace|traceback|breakpoint|segfault)\b`)},
	{"deployment/CI", regexp.MustCompile(`(?i)\b(?:deploy\w*|ci/cd|ci pipeline|continuous integration|github actions|release)\b`)},
}

// Heuristic thresholds.
const (
	minSentenceChars = 10
	maxSentenceChars = 500
	minMentions      = 2
	maxExtensions    = 5
	minActivityHits  = 1
)
