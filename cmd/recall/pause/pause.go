// Package pausecmder provides the pause and resume commands, which toggle
// memory collection without touching stored memories.
package pausecmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
)

const pauseLongDesc string = `Pause memory collection.

Sets enabled = false in memory-config.toml. Hooks keep running but record
nothing and never trigger synthesis. Stored memories and MEMORY.md are kept.

Examples:
  recall pause`

const resumeLongDesc string = `Resume memory collection after "recall pause".

Examples:
  recall resume`

func NewPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause memory collection",
		Long:  pauseLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setEnabled(cmd, false)
		},
	}
}

func NewResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume memory collection",
		Long:  resumeLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return setEnabled(cmd, true)
		},
	}
}

func setEnabled(cmd *cobra.Command, enabled bool) error {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	if err := config.SetConfigValue(env.Layout.ConfigPath, "enabled", fmt.Sprint(enabled)); err != nil {
		return fmt.Errorf("updating config: %w", err)
	}

	report(cmd.OutOrStdout(), enabled)
	return nil
}

func report(w io.Writer, enabled bool) {
	if enabled {
		fmt.Fprintf(w, "  %s Memory collection %s\n", cliui.SuccessMark, cliui.Enabled(true))
		return
	}
	fmt.Fprintf(w, "  %s Memory collection %s. Existing memories are kept.\n", cliui.WarnMark, cliui.Enabled(false))
}
