// Package oracle wraps an external summarization model as the primary fact
// extraction tier.
//
// An Oracle sends reduced conversation text to a CallFunc and parses the
// reply into memory facts. Every failure mode (no provider, timeout, HTTP
// error, unparsable reply) produces a Result with Status Unavailable so that
// the caller can fall back to heuristics; Extract never returns an error.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/papercomputeco/recall/pkg/memory"
)

// ErrUnavailable is returned when no oracle provider can be configured.
var ErrUnavailable = errors.New("oracle unavailable")

// Limits applied to oracle output.
const (
	// MaxFacts caps the facts accepted from a single reply.
	MaxFacts = 25

	// DefaultTimeout bounds a single oracle call.
	DefaultTimeout = 90 * time.Second

	promptFacts     = 10
	promptFactChars = 200
)

// CallFunc is the signature for a single model inference call.
type CallFunc func(ctx context.Context, prompt string) (string, error)

// Status is the outcome of an oracle extraction.
type Status int

const (
	// Unavailable means the oracle could not produce a usable answer.
	Unavailable Status = iota

	// Extracted means the oracle answered. Facts may still be empty when
	// the conversation held nothing worth remembering.
	Extracted
)

func (s Status) String() string {
	if s == Extracted {
		return "extracted"
	}
	return "unavailable"
}

// Result is the two-variant outcome of Extract.
type Result struct {
	Status  Status
	Facts   []memory.Fact
	Summary string

	// Err explains an Unavailable result.
	Err error
}

func unavailable(err error) Result {
	return Result{Status: Unavailable, Err: err}
}

// Oracle extracts facts by prompting a model.
type Oracle struct {
	call       CallFunc
	timeout    time.Duration
	categories []string
}

// New creates an Oracle. A nil call yields an Oracle whose every extraction
// is Unavailable. categories are the labels the model is asked to use.
func New(call CallFunc, timeout time.Duration, categories []string) *Oracle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Oracle{
		call:       call,
		timeout:    timeout,
		categories: categories,
	}
}

// Extract asks the model for facts about conversation. The call is bounded by
// the configured timeout.
func (o *Oracle) Extract(ctx context.Context, conversation string) Result {
	if o == nil || o.call == nil {
		return unavailable(ErrUnavailable)
	}
	if strings.TrimSpace(conversation) == "" {
		return unavailable(errors.New("empty conversation"))
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reply, err := o.call(ctx, BuildPrompt(conversation, o.categories))
	if err != nil {
		return unavailable(fmt.Errorf("oracle call: %w", err))
	}
	if ctx.Err() != nil {
		return unavailable(fmt.Errorf("oracle call: %w", ctx.Err()))
	}

	extraction, err := memory.ParseExtraction(reply)
	if err != nil {
		return unavailable(fmt.Errorf("parse oracle reply: %w", err))
	}

	facts := extraction.Facts()
	if len(facts) > MaxFacts {
		facts = facts[:MaxFacts]
	}

	return Result{
		Status:  Extracted,
		Facts:   facts,
		Summary: strings.TrimSpace(extraction.SessionSummary),
	}
}

// BuildPrompt renders the extraction instruction for conversation.
func BuildPrompt(conversation string, categories []string) string {
	var b strings.Builder

	b.WriteString("Analyze this conversation between a user and an AI coding assistant. ")
	b.WriteString("Extract durable facts about the user that would help in future sessions: ")
	b.WriteString("their role and work context, projects they are working on, stated preferences, ")
	b.WriteString("technical style, and the tools and workflows they use.\n\n")

	fmt.Fprintf(&b, "Rules:\n")
	fmt.Fprintf(&b, "- Return at most %d memories.\n", promptFacts)
	fmt.Fprintf(&b, "- Each memory is one short factual statement under %d characters.\n", promptFactChars)
	b.WriteString("- Only include facts about the user, not about this specific task.\n")
	if len(categories) > 0 {
		fmt.Fprintf(&b, "- Tag each memory with exactly one category from: %s.\n", strings.Join(categories, ", "))
	} else {
		b.WriteString("- Tag each memory with a short snake_case category.\n")
	}
	b.WriteString("- Add a one-line summary of the session.\n\n")

	b.WriteString("Return ONLY valid JSON in this shape, no markdown or extra text:\n")
	b.WriteString(`{"session_summary": "one line", "memories": [{"category": "...", "content": "..."}]}`)
	b.WriteString("\n\nConversation:\n")
	b.WriteString(conversation)

	return b.String()
}
