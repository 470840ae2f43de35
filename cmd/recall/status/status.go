// Package statuscmder provides the status command for displaying the state of
// automatic memory.
package statuscmder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/credentials"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/oracle"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

const statusLongDesc string = `Show the state of automatic memory.

Displays whether collection is enabled, how many session records are waiting
for synthesis, when synthesis last ran and when it is next due, followed by a
rendered preview of MEMORY.md.

Examples:
  recall status
  recall status --no-preview`

const statusShortDesc string = "Show automatic memory status"

const timeLayout = "2006-01-02 15:04"

type statusCommander struct {
	noPreview bool

	now func() time.Time
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{now: time.Now}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.noPreview, "no-preview", false, "Skip the MEMORY.md preview")

	return cmd
}

func (c *statusCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	log := env.CLILogger(cmd.ErrOrStderr())
	cfg := env.LoadConfig(log)
	layout := env.Layout

	records, err := local.NewStore(layout.SessionsDir, log).Records(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading session records: %w", err)
	}

	latest := "none"
	if len(records) > 0 {
		latest = cliui.Fit(records[len(records)-1].Summary, 60)
	}

	state, err := synthesis.LoadState(layout.StatePath)
	if err != nil {
		log.Warn("unreadable synthesis state", "error", err)
		state = nil
	}

	last := "never"
	next := "due now"
	if t, ok := state.Last(); ok {
		last = t.Local().Format(timeLayout)
		if n, ok := synthesis.NextRun(state, cfg.SynthesisInterval()); ok && n.After(c.now()) {
			next = n.Local().Format(timeLayout)
		}
	}

	const width = 16
	fmt.Fprintf(w, "\n  %s\n\n", cliui.TitleStyle.Render("Automatic Memory"))
	cliui.Field(w, width, "Collection:", cliui.Enabled(cfg.Enabled))
	cliui.Field(w, width, "Session records:", strconv.Itoa(len(records)))
	cliui.Field(w, width, "Latest session:", latest)
	cliui.Field(w, width, "Last synthesis:", last)
	cliui.Field(w, width, "Next synthesis:", next)
	cliui.Field(w, width, "Oracle:", oracleLabel(cfg.Oracle.Provider, layout.CredentialsPath))
	cliui.Field(w, width, "Memory file:", layout.DocumentPath)
	cliui.Field(w, width, "Config file:", layout.ConfigPath)
	fmt.Fprintln(w)

	if c.noPreview {
		return nil
	}
	return preview(w, layout.DocumentPath)
}

// oracleLabel shows which provider "auto" currently resolves to.
func oracleLabel(provider, credentialsPath string) string {
	resolved := oracle.ResolveProvider(provider, credentials.NewManager(credentialsPath))
	if resolved == provider {
		return provider
	}
	return provider + " (" + resolved + ")"
}

func preview(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "  %s No memory document yet. Run %s first.\n\n",
			cliui.DimStyle.Render("●"), cliui.NameStyle.Render("recall init"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading memory document: %w", err)
	}

	rendered, err := cliui.RenderMarkdown(string(data))
	if err != nil {
		rendered = string(data)
	}
	fmt.Fprint(w, rendered)
	return nil
}
