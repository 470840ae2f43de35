// Package recallcmder is the root of the recall command tree.
package recallcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/recall/cmd/recall/auth"
	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	configcmder "github.com/papercomputeco/recall/cmd/recall/config"
	hookcmder "github.com/papercomputeco/recall/cmd/recall/hook"
	initcmder "github.com/papercomputeco/recall/cmd/recall/init"
	pausecmder "github.com/papercomputeco/recall/cmd/recall/pause"
	resetcmder "github.com/papercomputeco/recall/cmd/recall/reset"
	statuscmder "github.com/papercomputeco/recall/cmd/recall/status"
	synthesizecmder "github.com/papercomputeco/recall/cmd/recall/synthesize"
	uninstallcmder "github.com/papercomputeco/recall/cmd/recall/uninstall"
	versioncmder "github.com/papercomputeco/recall/cmd/recall/version"
)

const recallLongDesc string = `Recall is automatic memory for your coding assistant.

At the end of every session the key facts about you, your projects and your
preferences are extracted from the transcript and stored. Periodically those
facts are merged into a single MEMORY.md that CLAUDE.md imports, so every new
session starts with what earlier sessions learned.

Get started with:
  recall init          Create the memory directory and CLAUDE.md import
  recall status        Show what has been collected
  recall synthesize    Merge collected memories now`

const recallShortDesc string = "Recall - Automatic Memory"

func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "recall",
		Short:        recallShortDesc,
		Long:         recallLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().String(cmdenv.FlagClaudeHome, "", "Claude home directory (default $CLAUDE_HOME or ~/.claude)")
	cmd.PersistentFlags().BoolP(cmdenv.FlagDebug, "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(hookcmder.NewHookCmd())
	cmd.AddCommand(synthesizecmder.NewSynthesizeCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(pausecmder.NewPauseCmd())
	cmd.AddCommand(pausecmder.NewResumeCmd())
	cmd.AddCommand(resetcmder.NewResetCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(uninstallcmder.NewUninstallCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
