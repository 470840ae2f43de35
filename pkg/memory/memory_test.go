package memory_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/recall/pkg/memory"
)

// fakeStore records saved records in memory.
type fakeStore struct {
	saved []*memory.SessionRecord
	err   error
}

func (f *fakeStore) Save(_ context.Context, rec *memory.SessionRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, rec)
	return "/sessions/session_" + rec.SessionID + ".json", nil
}

func (f *fakeStore) Records(context.Context) ([]*memory.SessionRecord, error) { return f.saved, nil }
func (f *fakeStore) Pending(context.Context) (int, error)                       { return len(f.saved), nil }
func (f *fakeStore) Prune(context.Context, time.Time) (int, error)             { return 0, nil }
func (f *fakeStore) Clear(context.Context) (int, error)                        { return 0, nil }

var _ = Describe("Fact", func() {
	It("stringifies non-string fields", func() {
		var facts []memory.Fact
		err := json.Unmarshal([]byte(`[
			{"category": "preferences", "content": 42},
			{"category": "preferences", "content": true},
			{"category": "preferences", "content": {"a": 1}},
			{"category": "preferences"}
		]`), &facts)
		Expect(err).NotTo(HaveOccurred())
		Expect(facts[0].Content).To(Equal("42"))
		Expect(facts[1].Content).To(Equal("true"))
		Expect(facts[2].Content).To(Equal(`{"a":1}`))
		Expect(facts[3].Content).To(BeEmpty())
	})
})

var _ = Describe("ParseExtraction", func() {
	It("parses a bare JSON object", func() {
		e, err := memory.ParseExtraction(`{"session_summary":"Fixed tests","memories":[{"category":"preferences","content":"Prefers tabs"}]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.SessionSummary).To(Equal("Fixed tests"))
		Expect(e.Facts()).To(Equal([]memory.Fact{{Category: "preferences", Content: "Prefers tabs"}}))
	})

	It("finds the object inside prose and fences", func() {
		e, err := memory.ParseExtraction("Here you go:\n```json\n{\"memories\":[{\"category\":\"work_context\",\"content\":\"Backend engineer\"}]}\n```")
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Facts()).To(HaveLen(1))
	})

	It("skips memory entries that are not objects", func() {
		e, err := memory.ParseExtraction(`{"memories":["loose string", {"category":"preferences","content":"Likes Go"}, null]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Facts()).To(Equal([]memory.Fact{{Category: "preferences", Content: "Likes Go"}}))
	})

	It("fails without an object", func() {
		_, err := memory.ParseExtraction("no json here")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseTimestamp", func() {
	It("accepts timestamps with and without a zone", func() {
		withZone, err := memory.ParseTimestamp("2025-01-15T10:30:00.5+02:00")
		Expect(err).NotTo(HaveOccurred())
		Expect(withZone.UTC().Hour()).To(Equal(8))

		naive, err := memory.ParseTimestamp("2025-01-15T10:30:00.123456")
		Expect(err).NotTo(HaveOccurred())
		Expect(naive.Location()).To(Equal(time.Local))
		Expect(naive.Hour()).To(Equal(10))
	})

	It("round-trips FormatTimestamp", func() {
		now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
		parsed, err := memory.ParseTimestamp(memory.FormatTimestamp(now))
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Equal(now)).To(BeTrue())
	})

	It("yields the zero time for malformed record timestamps", func() {
		rec := &memory.SessionRecord{Timestamp: "yesterday"}
		Expect(rec.Time().IsZero()).To(BeTrue())
	})
})

var _ = Describe("Recorder", func() {
	var (
		store *fakeStore
		now   time.Time
		ctx   context.Context
	)

	BeforeEach(func() {
		store = &fakeStore{}
		now = time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
		ctx = context.Background()
	})

	newRecorder := func(categories ...string) *memory.Recorder {
		return memory.NewRecorder(store, categories, memory.WithClock(func() time.Time { return now }))
	}

	It("persists valid facts as one record", func() {
		rec, path, err := newRecorder("preferences").Record(ctx, memory.Session{
			Facts:            []memory.Fact{{Category: "preferences", Content: "Prefers tabs"}},
			Summary:          "Refactored parser",
			WorkingDirectory: "/home/user/proj",
			SourceSession:    "abc",
			Tier:             memory.TierOracle,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(HaveSuffix("session_20250115_103000.json"))
		Expect(rec.SessionID).To(Equal("20250115_103000"))
		Expect(rec.Summary).To(Equal("Refactored parser"))
		Expect(rec.Extraction).To(Equal(memory.TierOracle))
		Expect(rec.Time().Equal(now)).To(BeTrue())
		Expect(store.saved).To(HaveLen(1))
	})

	It("drops invalid candidates", func() {
		rec, _, err := newRecorder("preferences", "work_context").Record(ctx, memory.Session{
			Facts: []memory.Fact{
				{Category: "", Content: "no category"},
				{Category: "preferences", Content: "  "},
				{Category: "secrets", Content: "not allowed"},
				{Category: "work_context", Content: "Backend engineer"},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Memories).To(Equal([]memory.Fact{{Category: "work_context", Content: "Backend engineer"}}))
		Expect(rec.Summary).To(Equal(memory.DefaultSummary))
	})

	It("accepts any category when the set is empty", func() {
		rec, _, err := newRecorder().Record(ctx, memory.Session{
			Facts: []memory.Fact{{Category: "hobbies", Content: "Plays chess"}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Memories).To(HaveLen(1))
	})

	It("truncates content to 500 characters", func() {
		long := strings.Repeat("é", 600)
		rec, _, err := newRecorder().Record(ctx, memory.Session{
			Facts: []memory.Fact{{Category: "preferences", Content: long}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect([]rune(rec.Memories[0].Content)).To(HaveLen(memory.MaxContentChars))
	})

	It("writes nothing when no fact survives", func() {
		_, _, err := newRecorder("preferences").Record(ctx, memory.Session{
			Facts: []memory.Fact{{Category: "secrets", Content: "nope"}},
		})
		Expect(errors.Is(err, memory.ErrNoFacts)).To(BeTrue())
		Expect(store.saved).To(BeEmpty())
	})

	It("returns persistence failures", func() {
		store.err = errors.New("disk full")
		_, _, err := newRecorder().Record(ctx, memory.Session{
			Facts: []memory.Fact{{Category: "preferences", Content: "Prefers tabs"}},
		})
		Expect(err).To(MatchError(ContainSubstring("disk full")))
		Expect(errors.Is(err, memory.ErrNoFacts)).To(BeFalse())
	})
})
