// Package synthesizecmder provides the synthesize command, which merges every
// session record into the memory document.
package synthesizecmder

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

const synthesizeLongDesc string = `Merge session records into the memory document.

Loads every session record, keeps the newest distinct facts per category and
rewrites <claude-home>/memory/MEMORY.md. Records older than
cleanup_after_days are removed afterwards.

Without --force the synthesis interval is honoured and nothing happens when
synthesis is not yet due.

Examples:
  recall synthesize
  recall synthesize --force
  recall synthesize --force --no-cleanup`

const synthesizeShortDesc string = "Merge session records into MEMORY.md"

type synthesizeCommander struct {
	force      bool
	noCleanup  bool
	background bool

	now func() time.Time
}

func NewSynthesizeCmd() *cobra.Command {
	cmder := &synthesizeCommander{now: time.Now}

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: synthesizeShortDesc,
		Long:  synthesizeLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.force, "force", false, "Run even when synthesis is not due")
	cmd.Flags().BoolVar(&cmder.noCleanup, "no-cleanup", false, "Keep session records past the retention window")
	cmd.Flags().BoolVar(&cmder.background, "background", false, "Log to the memory log instead of printing a report")
	_ = cmd.Flags().MarkHidden("background")

	return cmd
}

func (c *synthesizeCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var log *slog.Logger
	if c.background {
		var closeLog func()
		log, closeLog = env.HookLogger(cmd.ErrOrStderr(), "synthesize")
		defer closeLog()
		out = io.Discard
	} else {
		log = env.CLILogger(cmd.ErrOrStderr())
	}

	cfg := env.LoadConfig(log)
	now := c.now()

	if !c.force {
		state, err := synthesis.LoadState(env.Layout.StatePath)
		if err != nil {
			log.Warn("unreadable synthesis state, treating as never synthesized", "error", err)
			state = nil
		}
		if !synthesis.Due(now, state, cfg.SynthesisInterval()) {
			next, _ := synthesis.NextRun(state, cfg.SynthesisInterval())
			log.Debug("synthesis not due", "next", next)
			fmt.Fprintf(out, "\n  %s Synthesis not due until %s. Use --force to run now.\n\n",
				cliui.DimStyle.Render("●"),
				next.Local().Format("2006-01-02 15:04"),
			)
			return nil
		}
	}

	store := local.NewStore(env.Layout.SessionsDir, log)
	engine := synthesis.NewEngine(store, env.Layout.DocumentPath, env.Layout.StatePath,
		synthesis.WithLogger(log),
		synthesis.WithClock(func() time.Time { return now }),
	)

	report, err := engine.Run(cmd.Context(), synthesis.Options{
		MaxPerCategory: cfg.MaxMemoriesPerCategory,
		Retention:      cfg.Retention(),
		SkipCleanup:    c.noCleanup,
	})
	if err != nil {
		return fmt.Errorf("synthesizing memories: %w", err)
	}

	printReport(out, report)
	return nil
}

func printReport(w io.Writer, r *synthesis.Report) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.TitleStyle.Render("Claude Code Memory Synthesis"))

	if r.Loaded == 0 {
		fmt.Fprintf(w, "  %s No memories to synthesize\n\n", cliui.DimStyle.Render("●"))
		return
	}

	fmt.Fprintf(w, "  Found %d memories\n", r.Loaded)
	fmt.Fprintf(w, "  %s Wrote %d unique memories to %s\n\n",
		cliui.SuccessMark,
		r.Unique,
		cliui.DimStyle.Render(r.DocumentPath),
	)

	width := 0
	for _, c := range r.Categories {
		width = max(width, len(c.DisplayName))
	}
	for _, c := range r.Categories {
		cliui.Field(w, width, c.DisplayName, strconv.Itoa(c.Count))
	}
	fmt.Fprintln(w)

	switch {
	case r.CleanupSkipped:
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("Cleanup skipped"))
	case r.Removed > 0:
		fmt.Fprintf(w, "  Removed %d old session records\n\n", r.Removed)
	}
}
