// Package memory defines the durable facts recall keeps about a user and the
// per-session records they are persisted in.
//
// Facts are distilled, persistent knowledge derived from conversations, not
// raw messages. Each completed session yields at most one SessionRecord; the
// synthesis engine later merges every record into the consolidated document.
//
// Records are persisted through a [Store]. The local file store in
// memory/local is the only implementation:
//
//	<memory>/sessions/session_YYYYMMDD_HHMMSS.json
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNoFacts is returned by the Recorder when no candidate fact survives
// validation. Callers treat it as a successful no-op.
var ErrNoFacts = errors.New("no valid memory facts")

// Tier names the source of a record's facts.
type Tier string

const (
	TierOracle    Tier = "oracle"
	TierHeuristic Tier = "heuristic"
	TierPayload   Tier = "payload"
)

// DefaultSummary is used when a session produced no summary.
const DefaultSummary = "Session"

// Fact is a single categorized memory.
type Fact struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// UnmarshalJSON accepts facts whose fields are not strings. Numbers and
// booleans are stringified; nested values are kept as compact JSON. A value
// that is not a JSON object is an error.
func (f *Fact) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("memory fact is null")
	}

	f.Category = stringify(raw["category"])
	f.Content = stringify(raw["content"])
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Extraction is the JSON shape shared by oracle replies and hook payloads:
//
//	{"session_summary": "...", "memories": [{"category": "...", "content": "..."}]}
type Extraction struct {
	SessionSummary string            `json:"session_summary"`
	Memories       []json.RawMessage `json:"memories"`
}

// Facts decodes every memory entry, skipping entries that are not objects.
func (e *Extraction) Facts() []Fact {
	facts := make([]Fact, 0, len(e.Memories))
	for _, raw := range e.Memories {
		var f Fact
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		facts = append(facts, f)
	}
	return facts
}

// ParseExtraction decodes an Extraction from text that may wrap the JSON
// object in prose or markdown fences. The outermost braces are used when the
// text as a whole is not valid JSON.
func ParseExtraction(text string) (*Extraction, error) {
	var e Extraction
	if err := json.Unmarshal([]byte(text), &e); err == nil {
		return &e, nil
	}

	obj, ok := OutermostObject(text)
	if !ok {
		return nil, errors.New("no JSON object found")
	}
	if err := json.Unmarshal([]byte(obj), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// OutermostObject returns the substring from the first '{' to the last '}'.
func OutermostObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// SessionRecord is the persisted memory of one completed session. Records are
// written once and never mutated.
type SessionRecord struct {
	// SessionID is the local-time second the record was created, formatted
	// as YYYYMMDD_HHMMSS.
	SessionID string `json:"session_id"`

	// Timestamp is the ISO-8601 creation time.
	Timestamp string `json:"timestamp"`

	Summary          string `json:"summary"`
	Memories         []Fact `json:"memories"`
	WorkingDirectory string `json:"working_directory"`

	// SourceSession is the conversational session id from the hook payload.
	SourceSession string `json:"source_session,omitempty"`

	// Extraction names the tier that produced Memories.
	Extraction Tier `json:"extraction,omitempty"`
}

// SessionIDLayout formats SessionID and the record file name timestamp.
const SessionIDLayout = "20060102_150405"

// timestampLayouts are accepted when reading record and state timestamps.
// Zone-less layouts are interpreted in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp with or without a zone offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatTimestamp renders t the way records and state files store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// Time returns the record's parsed timestamp, or the zero time when it is
// missing or malformed.
func (r *SessionRecord) Time() time.Time {
	t, err := ParseTimestamp(r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Store persists session records.
type Store interface {
	// Save writes a new record and returns its path. Existing records are
	// never overwritten.
	Save(ctx context.Context, rec *SessionRecord) (string, error)

	// Records returns every readable record in file-name order. Unreadable
	// records are skipped.
	Records(ctx context.Context) ([]*SessionRecord, error)

	// Pending counts record files awaiting synthesis.
	Pending(ctx context.Context) (int, error)

	// Prune deletes records whose file-name timestamp is before cutoff and
	// returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	// Clear deletes every record.
	Clear(ctx context.Context) (int, error)
}
