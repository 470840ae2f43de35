// Package synthesis merges every persisted session record into the
// consolidated memory document and decides when that should happen.
//
// A run loads all records, groups facts by category, keeps the newest
// distinct facts per category, renders MEMORY.md, records the run in the
// state file and finally prunes records past the retention window. Runs are
// idempotent: re-running without new records reproduces the same document
// apart from the timestamp line.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/papercomputeco/recall/pkg/memory"
)

const (
	// fallbackCategory holds facts persisted without a category.
	fallbackCategory = "other"

	// substringMinChars is the length both facts must exceed before
	// containment counts as duplication.
	substringMinChars = 20
)

// item is one fact flattened out of a record.
type item struct {
	category string
	content  string
	at       time.Time
}

// CategoryCount is the number of facts kept for a category.
type CategoryCount struct {
	Category    string
	DisplayName string
	Count       int
}

// Report describes a synthesis run.
type Report struct {
	// Loaded is the number of facts read from records.
	Loaded int

	// Unique is the number of facts written to the document.
	Unique int

	// Categories lists kept facts per category in document order.
	Categories []CategoryCount

	// Removed is the number of records deleted by cleanup.
	Removed int

	// CleanupSkipped is set when cleanup was suppressed.
	CleanupSkipped bool

	// DocumentPath is where the document was written. Empty when nothing
	// was written.
	DocumentPath string

	SynthesizedAt time.Time
}

// Written reports whether the run produced a document.
func (r *Report) Written() bool {
	return r != nil && r.DocumentPath != ""
}

// Options tune a synthesis run.
type Options struct {
	// MaxPerCategory caps the facts kept per category. Zero keeps none.
	MaxPerCategory int

	// Retention is how long records survive cleanup.
	Retention time.Duration

	// SkipCleanup suppresses record deletion.
	SkipCleanup bool
}

// Engine runs synthesis over a record store.
type Engine struct {
	store        memory.Store
	documentPath string
	statePath    string
	logger       *slog.Logger
	now          func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine that writes the document to documentPath and
// the run state to statePath.
func NewEngine(store memory.Store, documentPath, statePath string, opts ...EngineOption) *Engine {
	e := &Engine{
		store:        store,
		documentPath: documentPath,
		statePath:    statePath,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one synthesis. When no record holds any fact the returned
// report has Loaded == 0 and nothing is written or deleted.
func (e *Engine) Run(ctx context.Context, opts Options) (*Report, error) {
	records, err := e.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading session records: %w", err)
	}

	items, encounter := flatten(records)
	report := &Report{Loaded: len(items)}
	if len(items) == 0 {
		e.logger.Info("no memories to synthesize")
		return report, nil
	}

	groups := deduplicate(items, encounter, opts.MaxPerCategory)
	order := orderedCategories(groups, encounter)

	for _, category := range order {
		n := len(groups[category])
		report.Unique += n
		report.Categories = append(report.Categories, CategoryCount{
			Category:    category,
			DisplayName: DisplayName(category),
			Count:       n,
		})
	}

	at := e.now()
	if err := writeFileAtomic(e.documentPath, []byte(render(groups, order, at))); err != nil {
		return nil, fmt.Errorf("writing memory document: %w", err)
	}
	report.DocumentPath = e.documentPath
	report.SynthesizedAt = at

	if err := SaveState(e.statePath, at); err != nil {
		return nil, err
	}

	e.logger.Info("memory document written",
		"path", e.documentPath,
		"loaded", report.Loaded,
		"unique", report.Unique,
	)

	if opts.SkipCleanup {
		report.CleanupSkipped = true
		return report, nil
	}

	removed, err := e.store.Prune(ctx, at.Add(-opts.Retention))
	if err != nil {
		e.logger.Warn("session cleanup failed", "error", err)
		return report, nil
	}
	report.Removed = removed
	if removed > 0 {
		e.logger.Info("removed old session records", "count", removed)
	}

	return report, nil
}

// flatten turns records into items and returns the categories in the order
// they were first seen.
func flatten(records []*memory.SessionRecord) ([]item, []string) {
	var (
		items     []item
		encounter []string
	)
	seen := map[string]bool{}

	for _, rec := range records {
		at := rec.Time()
		for _, fact := range rec.Memories {
			content := strings.TrimSpace(fact.Content)
			if content == "" {
				continue
			}
			category := strings.TrimSpace(fact.Category)
			if category == "" {
				category = fallbackCategory
			}
			if !seen[category] {
				seen[category] = true
				encounter = append(encounter, category)
			}
			items = append(items, item{category: category, content: content, at: at})
		}
	}

	return items, encounter
}

// deduplicate groups items by category and keeps, newest first, facts that
// are neither equal to nor (when both are long enough) contained in or
// containing an already kept fact. Comparison ignores case and surrounding
// whitespace.
func deduplicate(items []item, categories []string, maxPerCategory int) map[string][]item {
	byCategory := map[string][]item{}
	for _, it := range items {
		byCategory[it.category] = append(byCategory[it.category], it)
	}

	groups := make(map[string][]item, len(categories))
	for _, category := range categories {
		candidates := byCategory[category]
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].at.After(candidates[j].at)
		})

		var (
			kept []item
			seen []string
		)
		for _, it := range candidates {
			if len(kept) >= maxPerCategory {
				break
			}
			norm := strings.ToLower(strings.TrimSpace(it.content))
			if isDuplicate(norm, seen) {
				continue
			}
			seen = append(seen, norm)
			kept = append(kept, it)
		}
		groups[category] = kept
	}

	return groups
}

func isDuplicate(content string, seen []string) bool {
	long := utf8.RuneCountInString(content) > substringMinChars
	for _, s := range seen {
		if content == s {
			return true
		}
		if long && utf8.RuneCountInString(s) > substringMinChars &&
			(strings.Contains(s, content) || strings.Contains(content, s)) {
			return true
		}
	}
	return false
}
