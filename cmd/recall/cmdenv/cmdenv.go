// Package cmdenv resolves what every recall command needs before it runs:
// the memory layout under the Claude home directory, the loaded
// configuration and a logger.
package cmdenv

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
	"github.com/papercomputeco/recall/pkg/logger"
)

// Persistent flag names registered on the root command.
const (
	FlagClaudeHome = "claude-home"
	FlagDebug      = "debug"
)

// Env is the resolved command environment.
type Env struct {
	Layout *dotdir.Layout
	Debug  bool
}

// Resolve reads the persistent flags from cmd and derives the layout. Flags
// that are not registered (a subcommand run on its own) fall back to
// $CLAUDE_HOME or ~/.claude.
func Resolve(cmd *cobra.Command) (*Env, error) {
	claudeHome, _ := cmd.Flags().GetString(FlagClaudeHome)
	debug, _ := cmd.Flags().GetBool(FlagDebug)

	layout, err := dotdir.NewManager().Layout(claudeHome)
	if err != nil {
		return nil, fmt.Errorf("resolving claude home: %w", err)
	}

	return &Env{Layout: layout, Debug: debug}, nil
}

// LoadConfig loads the configuration. A malformed file yields defaults and a
// warning on logger rather than an error.
func (e *Env) LoadConfig(log *slog.Logger) config.Config {
	cfg, err := config.Load(e.Layout.ConfigPath)
	if err != nil {
		log.Warn("invalid configuration, using defaults", "path", e.Layout.ConfigPath, "error", err)
	}
	return cfg
}

// HookLogger returns a logger that appends JSON records to the memory log
// file and, with --debug, also pretty-prints to stderr. Every record carries
// a fresh run_id. The returned func closes the log file.
//
// When the log file cannot be opened the logger degrades to stderr only, or
// discards everything without --debug.
func (e *Env) HookLogger(stderr io.Writer, component string) (*slog.Logger, func()) {
	attrs := logger.WithAttrs("run_id", uuid.NewString(), "component", component)

	var fileLog, stderrLog *slog.Logger
	closer := func() {}

	if f, err := logger.OpenFile(e.Layout.LogPath); err == nil {
		fileLog = logger.New(logger.WithJSON(true), logger.WithDebug(e.Debug), logger.WithWriter(f), attrs)
		closer = func() { _ = f.Close() }
	}

	if e.Debug {
		stderrLog = logger.New(logger.WithPretty(true), logger.WithDebug(true), logger.WithWriter(stderr), attrs)
	}

	return logger.Multi(fileLog, stderrLog), closer
}

// CLILogger returns a pretty logger on stderr for interactive commands.
func (e *Env) CLILogger(stderr io.Writer) *slog.Logger {
	return logger.New(
		logger.WithPretty(true),
		logger.WithDebug(e.Debug),
		logger.WithWriter(stderr),
	)
}
