package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentChars bounds a persisted fact.
const MaxContentChars = 500

// Session is everything the Recorder needs to persist one session.
type Session struct {
	Facts            []Fact
	Summary          string
	WorkingDirectory string
	SourceSession    string
	Tier             Tier
}

// Recorder validates candidate facts and writes them as one SessionRecord.
type Recorder struct {
	store      Store
	categories []string
	now        func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock overrides the time source used for record ids and timestamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder creates a Recorder. An empty categories slice accepts any
// category.
func NewRecorder(store Store, categories []string, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:      store,
		categories: categories,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate returns the facts that may be persisted: category and content
// non-empty, category allowed, content truncated to MaxContentChars.
func (r *Recorder) Validate(facts []Fact) []Fact {
	valid := make([]Fact, 0, len(facts))
	for _, f := range facts {
		category := strings.TrimSpace(f.Category)
		content := strings.TrimSpace(f.Content)
		if category == "" || content == "" {
			continue
		}
		if len(r.categories) > 0 && !slices.Contains(r.categories, category) {
			continue
		}
		valid = append(valid, Fact{
			Category: category,
			Content:  truncate(content, MaxContentChars),
		})
	}
	return valid
}

// Record validates s.Facts and persists them. It returns ErrNoFacts when
// nothing survives validation; in that case no record is written.
func (r *Recorder) Record(ctx context.Context, s Session) (*SessionRecord, string, error) {
	facts := r.Validate(s.Facts)
	if len(facts) == 0 {
		return nil, "", ErrNoFacts
	}

	summary := strings.TrimSpace(s.Summary)
	if summary == "" {
		summary = DefaultSummary
	}

	now := r.now()
	rec := &SessionRecord{
		SessionID:        now.Format(SessionIDLayout),
		Timestamp:        FormatTimestamp(now),
		Summary:          summary,
		Memories:         facts,
		WorkingDirectory: s.WorkingDirectory,
		SourceSession:    s.SourceSession,
		Extraction:       s.Tier,
	}

	path, err := r.store.Save(ctx, rec)
	if err != nil {
		return nil, "", fmt.Errorf("saving session record: %w", err)
	}
	return rec, path, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
