package hookcmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/papercomputeco/recall/pkg/memory"
)

// payload is the JSON the assistant writes to the session-end hook's stdin.
type payload struct {
	SessionID      string            `json:"session_id"`
	Cwd            string            `json:"cwd"`
	TranscriptPath string            `json:"transcript_path"`
	Memories       []json.RawMessage `json:"memories"`
	SessionSummary string            `json:"session_summary"`

	// Output may carry an extraction as a JSON string or object.
	Output json.RawMessage `json:"output"`
}

// parsePayload decodes stdin. Surrounding noise is tolerated by falling back
// to the outermost {...}. Blank input returns nil, nil.
func parsePayload(data []byte) (*payload, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}

	p := &payload{}
	if err := json.Unmarshal([]byte(text), p); err == nil {
		return p, nil
	}

	obj, ok := memory.OutermostObject(text)
	if !ok {
		return nil, errors.New("hook payload is not JSON")
	}
	if err := json.Unmarshal([]byte(obj), p); err != nil {
		return nil, fmt.Errorf("parsing hook payload: %w", err)
	}
	return p, nil
}

// extraction returns facts supplied by the payload itself, either as a
// memories array or inside output.
func (p *payload) extraction() (*memory.Extraction, bool) {
	if p.Memories != nil {
		return &memory.Extraction{SessionSummary: p.SessionSummary, Memories: p.Memories}, true
	}

	if len(p.Output) == 0 {
		return nil, false
	}

	var text string
	if err := json.Unmarshal(p.Output, &text); err != nil {
		text = string(p.Output)
	}

	ext, err := memory.ParseExtraction(text)
	if err != nil || ext.Memories == nil {
		return nil, false
	}
	if ext.SessionSummary == "" {
		ext.SessionSummary = p.SessionSummary
	}
	return ext, true
}
