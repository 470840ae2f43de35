// Package extract turns a reduced conversation into candidate memory facts.
//
// Extraction has two tiers. The oracle tier asks a model; when it reports
// Unavailable the deterministic heuristic tier runs instead. The heuristic
// tier is driven entirely by the tables in rules.go.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/papercomputeco/recall/pkg/git"
	"github.com/papercomputeco/recall/pkg/memory"
	"github.com/papercomputeco/recall/pkg/oracle"
	"github.com/papercomputeco/recall/pkg/transcript"
)

// Input is one session to extract from.
type Input struct {
	Conversation *transcript.Output

	// WorkingDirectory is the session's project directory.
	WorkingDirectory string

	// InvocationDirectory is where the pipeline itself is running.
	InvocationDirectory string
}

// Outcome is the extracted facts and the tier that produced them.
type Outcome struct {
	Facts   []memory.Fact
	Summary string
	Tier    memory.Tier
}

// Extractor runs the oracle tier and falls back to heuristics.
type Extractor struct {
	oracle *oracle.Oracle
	logger *slog.Logger

	// projectName resolves a directory to a project name.
	projectName func(ctx context.Context, dir string) string
}

// New creates an Extractor. A nil oracle means the heuristic tier always runs.
func New(o *oracle.Oracle, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		oracle:      o,
		logger:      logger,
		projectName: git.RepoName,
	}
}

// Extract produces candidate facts for in. It never fails: an empty
// conversation yields an empty Outcome, and oracle problems are logged and
// answered by the heuristic tier.
func (e *Extractor) Extract(ctx context.Context, in Input) Outcome {
	if in.Conversation.Empty() {
		return Outcome{}
	}

	if e.oracle != nil {
		result := e.oracle.Extract(ctx, in.Conversation.Text)
		if result.Status == oracle.Extracted {
			e.logger.Debug("oracle extraction succeeded", "facts", len(result.Facts))
			summary := result.Summary
			if summary == "" {
				summary = e.heuristicSummary(ctx, in)
			}
			return Outcome{Facts: result.Facts, Summary: summary, Tier: memory.TierOracle}
		}
		e.logger.Warn("oracle unavailable, using heuristics", "error", result.Err)
	}

	return e.Heuristic(ctx, in)
}

// Heuristic runs only the deterministic tier.
func (e *Extractor) Heuristic(ctx context.Context, in Input) Outcome {
	if in.Conversation.Empty() {
		return Outcome{}
	}

	project := e.project(ctx, in.WorkingDirectory)
	facts := heuristicFacts(heuristicInput{
		turns:         in.Conversation.Turns,
		project:       project,
		projectPath:   in.WorkingDirectory,
		reportProject: differentDirs(in.WorkingDirectory, in.InvocationDirectory),
	})

	e.logger.Debug("heuristic extraction finished", "facts", len(facts))
	return Outcome{
		Facts:   facts,
		Summary: summary(project, in.Conversation.MessageCount),
		Tier:    memory.TierHeuristic,
	}
}

func (e *Extractor) heuristicSummary(ctx context.Context, in Input) string {
	return summary(e.project(ctx, in.WorkingDirectory), in.Conversation.MessageCount)
}

func (e *Extractor) project(ctx context.Context, dir string) string {
	if dir == "" {
		return ""
	}
	return e.projectName(ctx, dir)
}

func summary(project string, messages int) string {
	if project == "" {
		project = "unknown project"
	}
	return fmt.Sprintf("Session in %s (%d messages)", project, messages)
}

func differentDirs(working, invocation string) bool {
	if working == "" {
		return false
	}
	if invocation == "" {
		return true
	}
	return filepath.Clean(working) != filepath.Clean(invocation)
}
