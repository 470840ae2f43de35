// Package transcript locates Claude Code session transcripts on disk and
// reduces them to the conversation text that fact extraction works on.
package transcript

import (
	"bytes"
	"encoding/json"
)

// Entry types and block types that carry conversation.
const (
	TypeUser      = "user"
	TypeAssistant = "assistant"

	BlockText = "text"
)

// Entry represents a single line in a Claude Code JSONL transcript.
type Entry struct {
	Type      string   `json:"type"`
	UUID      string   `json:"uuid"`
	SessionID string   `json:"sessionId"`
	IsMeta    bool     `json:"isMeta"`
	Message   *Message `json:"message"`
}

// Message is the message field within a JSONL entry.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Block is one typed content block. Only text blocks carry conversation;
// tool_use, tool_result and thinking blocks are tool machinery.
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Content is a message body. Transcripts store it either as a bare string or
// as an array of typed blocks; a bare string decodes to a single text block.
type Content []Block

// UnmarshalJSON accepts both content shapes. Anything else decodes to no
// blocks rather than failing the whole entry.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*c = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{{Type: BlockText, Text: s}}
	case '[':
		var blocks []Block
		if err := json.Unmarshal(data, &blocks); err != nil {
			return err
		}
		*c = blocks
	default:
		*c = nil
	}
	return nil
}

// TextBlocks returns the text of every text block in order.
func (c Content) TextBlocks() []string {
	var out []string
	for _, block := range c {
		if block.Type == BlockText {
			out = append(out, block.Text)
		}
	}
	return out
}

// IsConversation reports whether the entry is a user or assistant turn that
// is not marked as meta.
func (e *Entry) IsConversation() bool {
	if e.IsMeta || e.Message == nil {
		return false
	}
	return e.Type == TypeUser || e.Type == TypeAssistant
}

