package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Reduction limits.
const (
	// MaxUserBlockChars drops user text blocks longer than this; they are
	// almost always pasted files or logs.
	MaxUserBlockChars = 2000

	// MaxAssistantBlockChars truncates assistant text blocks.
	MaxAssistantBlockChars = 1000

	// MinEntryChars discards entries whose kept text is shorter than this.
	MinEntryChars = 5

	// MaxTextBytes bounds the serialized conversation.
	MaxTextBytes = 50000

	maxLineBytes = 10 * 1024 * 1024
)

// Role labels used in serialized conversation text.
const (
	RoleUser      = "USER"
	RoleAssistant = "ASSISTANT"
)

// commandMarkers identify slash-command plumbing echoed into user turns.
var commandMarkers = []string{
	"<command-name>",
	"<command-message>",
	"<command-args>",
	"<local-command-stdout>",
	"<local-command-stderr>",
}

// Turn is one retained conversation entry.
type Turn struct {
	Role string
	Text string
}

// Output is a reduced transcript. An empty Text means there is nothing to
// extract from.
type Output struct {
	// Text is the serialized conversation, bounded by MaxTextBytes.
	Text string

	// MessageCount is the number of retained user and assistant entries.
	MessageCount int

	// Turns are every retained entry in transcript order, before the size
	// bound is applied.
	Turns []Turn
}

// Empty reports whether the reduction produced nothing to analyze.
func (o *Output) Empty() bool {
	return o == nil || o.Text == ""
}

// Reducer turns a JSONL transcript into role-tagged conversation text.
type Reducer struct {
	minMessages int
}

// NewReducer creates a Reducer that gates on minMessages retained entries.
func NewReducer(minMessages int) *Reducer {
	return &Reducer{minMessages: minMessages}
}

// ReduceFile opens path and reduces it.
func (r *Reducer) ReduceFile(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	defer f.Close()

	return r.Reduce(f)
}

// Reduce streams a transcript from rd. Malformed lines are skipped. If fewer
// than the configured minimum of entries survive, the returned Output is
// empty.
func (r *Reducer) Reduce(rd io.Reader) (*Output, error) {
	var turns []Turn

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // skip malformed lines
		}

		if turn, ok := reduceEntry(&entry); ok {
			turns = append(turns, turn)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}

	if len(turns) < r.minMessages || len(turns) == 0 {
		return &Output{}, nil
	}

	return &Output{
		Text:         serialize(turns, MaxTextBytes),
		MessageCount: len(turns),
		Turns:        turns,
	}, nil
}

func reduceEntry(entry *Entry) (Turn, bool) {
	if !entry.IsConversation() {
		return Turn{}, false
	}

	var (
		kept []string
		role string
	)

	switch entry.Type {
	case TypeUser:
		role = RoleUser
		for _, text := range entry.Message.Content.TextBlocks() {
			if hasCommandMarker(text) || utf8.RuneCountInString(text) > MaxUserBlockChars {
				continue
			}
			kept = append(kept, text)
		}
	case TypeAssistant:
		role = RoleAssistant
		for _, text := range entry.Message.Content.TextBlocks() {
			kept = append(kept, truncateRunes(text, MaxAssistantBlockChars))
		}
	}

	text := strings.TrimSpace(strings.Join(kept, "\n"))
	if utf8.RuneCountInString(text) < MinEntryChars {
		return Turn{}, false
	}

	return Turn{Role: role, Text: text}, true
}

func hasCommandMarker(text string) bool {
	for _, marker := range commandMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// serialize renders turns as "ROLE: text" paragraphs. When the result would
// exceed limit bytes, the oldest turns are dropped so that the longest suffix
// of whole turns that fits is kept. A newest turn that is larger than limit on
// its own is cut down to its last limit bytes.
func serialize(turns []Turn, limit int) string {
	const sep = "\n\n"

	parts := make([]string, len(turns))
	for i, turn := range turns {
		parts[i] = turn.Role + ": " + turn.Text
	}

	start := len(parts)
	size := 0
	for i := len(parts) - 1; i >= 0; i-- {
		next := size + len(parts[i])
		if i < len(parts)-1 {
			next += len(sep)
		}
		if next > limit && start < len(parts) {
			break
		}
		size = next
		start = i
	}

	if size > limit {
		return tailBytes(parts[start], limit)
	}
	return strings.Join(parts[start:], sep)
}

// tailBytes returns the longest suffix of s that is at most n bytes and
// starts on a rune boundary.
func tailBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}
