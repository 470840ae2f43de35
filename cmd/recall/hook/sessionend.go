package hookcmder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/credentials"
	"github.com/papercomputeco/recall/pkg/extract"
	"github.com/papercomputeco/recall/pkg/memory"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/oracle"
	"github.com/papercomputeco/recall/pkg/transcript"
)

const sessionEndLongDesc string = `Extract memories from a finished session.

Reads the hook payload from stdin:

  {"session_id": "...", "cwd": "...", "transcript_path": "..."}

When the payload carries a "memories" array (or an "output" holding one) those
facts are stored directly. Otherwise the session transcript is located under
<claude-home>/projects, reduced to its conversational turns and analyzed by
the configured oracle, falling back to local heuristics when the oracle is
unavailable.

Empty input, an interactive terminal, paused collection or a session too
short to analyze are all successful no-ops.`

const sessionEndShortDesc string = "Extract memories from a finished session"

type sessionEndCommander struct {
	oracleProvider string
	oracleModel    string
	minMessages    int

	getwd func() (string, error)
}

func newSessionEndCmd() *cobra.Command {
	cmder := &sessionEndCommander{getwd: os.Getwd}

	cmd := &cobra.Command{
		Use:   "session-end",
		Short: sessionEndShortDesc,
		Long:  sessionEndLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.PipelineFlags, config.FlagOracleProvider, &cmder.oracleProvider)
	config.AddStringFlag(cmd, config.PipelineFlags, config.FlagOracleModel, &cmder.oracleModel)
	config.AddIntFlag(cmd, config.PipelineFlags, config.FlagMinMessages, &cmder.minMessages)

	return cmd
}

func (c *sessionEndCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	log, closeLog := env.HookLogger(cmd.ErrOrStderr(), "session-end")
	defer closeLog()

	in := cmd.InOrStdin()
	if isTerminal(in) {
		log.Debug("stdin is a terminal, nothing to record")
		return nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		log.Warn("reading hook payload", "error", err)
		return nil
	}

	p, err := parsePayload(data)
	if err != nil {
		log.Warn("ignoring malformed hook payload", "error", err)
		return nil
	}
	if p == nil {
		log.Debug("empty hook payload")
		return nil
	}
	log = log.With("session_id", p.SessionID)

	loader := config.NewLoader(env.Layout.ConfigPath)
	config.BindRegisteredFlags(loader.Viper(), cmd, config.PipelineFlags, []string{
		config.FlagOracleProvider,
		config.FlagOracleModel,
		config.FlagMinMessages,
	})
	cfg, err := loader.Config()
	if err != nil {
		log.Warn("invalid configuration, using defaults", "path", env.Layout.ConfigPath, "error", err)
	}

	if !cfg.Enabled {
		log.Info("memory collection is paused")
		return nil
	}

	ctx := cmd.Context()
	session, ok := c.session(ctx, env, cfg, p, log)
	if !ok {
		return nil
	}

	store := local.NewStore(env.Layout.SessionsDir, log)
	rec, path, err := memory.NewRecorder(store, cfg.Categories).Record(ctx, session)
	if errors.Is(err, memory.ErrNoFacts) {
		log.Info("no memorable facts in session", "extraction", session.Tier)
		return nil
	}
	if err != nil {
		log.Error("failed to persist session record", "error", err)
		return err
	}

	log.Info("session recorded",
		"path", path,
		"facts", len(rec.Memories),
		"extraction", rec.Extraction,
	)
	return nil
}

// session produces the facts to record. It reports false when there is
// nothing to analyze.
func (c *sessionEndCommander) session(ctx context.Context, env *cmdenv.Env, cfg config.Config, p *payload, log *slog.Logger) (memory.Session, bool) {
	if ext, ok := p.extraction(); ok {
		log.Debug("using memories from hook payload", "memories", len(ext.Memories))
		return memory.Session{
			Facts:            ext.Facts(),
			Summary:          ext.SessionSummary,
			WorkingDirectory: p.Cwd,
			SourceSession:    p.SessionID,
			Tier:             memory.TierPayload,
		}, true
	}

	path, found := transcript.NewLocator(env.Layout.TranscriptsRoot).Locate(p.SessionID, p.Cwd, p.TranscriptPath)
	if !found {
		log.Info("transcript not found", "transcript_path", p.TranscriptPath)
		return memory.Session{}, false
	}

	conversation, err := transcript.NewReducer(cfg.MinMessages).ReduceFile(path)
	if err != nil {
		log.Warn("reading transcript", "path", path, "error", err)
		return memory.Session{}, false
	}
	if conversation.Empty() {
		log.Info("session too short to analyze", "path", path, "min_messages", cfg.MinMessages)
		return memory.Session{}, false
	}

	invocation, err := c.getwd()
	if err != nil {
		invocation = p.Cwd
	}

	outcome := extract.New(newOracle(env, cfg, log), log).Extract(ctx, extract.Input{
		Conversation:        conversation,
		WorkingDirectory:    p.Cwd,
		InvocationDirectory: invocation,
	})

	return memory.Session{
		Facts:            outcome.Facts,
		Summary:          outcome.Summary,
		WorkingDirectory: p.Cwd,
		SourceSession:    p.SessionID,
		Tier:             outcome.Tier,
	}, true
}

// newOracle returns nil when no provider is usable.
func newOracle(env *cmdenv.Env, cfg config.Config, log *slog.Logger) *oracle.Oracle {
	call, provider, err := oracle.NewCaller(oracle.CallerConfig{
		Provider: cfg.Oracle.Provider,
		Model:    cfg.Oracle.Model,
		BaseURL:  cfg.Oracle.BaseURL,
		Keys:     credentials.NewManager(env.Layout.CredentialsPath),
	})
	if err != nil {
		log.Info("oracle disabled", "provider", provider, "reason", err)
		return nil
	}

	log.Debug("oracle ready", "provider", provider)
	return oracle.New(call, cfg.OracleTimeout(), cfg.Categories)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
