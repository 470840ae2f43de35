// Package uninstallcmder provides the uninstall command, which detaches the
// memory document from CLAUDE.md.
package uninstallcmder

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/dotdir"
)

const uninstallLongDesc string = `Stop loading memories into new sessions.

Removes the @memory/MEMORY.md import from <claude-home>/CLAUDE.md. With
--purge the whole memory directory (records, document, state, config and
log) is deleted as well; otherwise memories are kept so that "recall init"
can restore the previous state.

Remember to remove the SessionEnd and SessionStart hook registrations from
the assistant's settings.

Examples:
  recall uninstall
  recall uninstall --purge`

const uninstallShortDesc string = "Remove the memory import from CLAUDE.md"

type uninstallCommander struct {
	purge bool
}

func NewUninstallCmd() *cobra.Command {
	cmder := &uninstallCommander{}

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: uninstallShortDesc,
		Long:  uninstallLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.purge, "purge", false, "Also delete the memory directory")

	return cmd
}

func (c *uninstallCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	layout := env.Layout

	changed, err := dotdir.RemoveImport(layout.InstructionsMD)
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintf(w, "  %s Removed memory import from %s\n", cliui.SuccessMark, cliui.DimStyle.Render(layout.InstructionsMD))
	} else {
		fmt.Fprintf(w, "  %s %s does not import the memory document\n", cliui.DimStyle.Render("●"), layout.InstructionsMD)
	}

	if !c.purge {
		fmt.Fprintf(w, "  %s Memories kept in %s\n", cliui.DimStyle.Render("●"), layout.MemoryDir)
		return nil
	}

	if err := os.RemoveAll(layout.MemoryDir); err != nil {
		return fmt.Errorf("removing memory directory: %w", err)
	}
	fmt.Fprintf(w, "  %s Deleted %s\n", cliui.SuccessMark, layout.MemoryDir)
	return nil
}
