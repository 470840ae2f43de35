// Package resetcmder provides the reset command, which deletes every stored
// memory.
package resetcmder

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/memory/local"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

const resetLongDesc string = `Delete all stored memories.

Removes every session record, the synthesized MEMORY.md and the synthesis
state. Configuration and the CLAUDE.md import are kept. Requires --yes.

Examples:
  recall reset --yes`

const resetShortDesc string = "Delete all stored memories"

type resetCommander struct {
	yes bool
}

func NewResetCmd() *cobra.Command {
	cmder := &resetCommander{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: resetShortDesc,
		Long:  resetLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Confirm deletion")

	return cmd
}

func (c *resetCommander) run(cmd *cobra.Command) error {
	if !c.yes {
		return errors.New("refusing to delete memories without --yes")
	}

	env, err := cmdenv.Resolve(cmd)
	if err != nil {
		return err
	}

	store := local.NewStore(env.Layout.SessionsDir, env.CLILogger(cmd.ErrOrStderr()))
	removed, err := store.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("removing session records: %w", err)
	}

	if err := os.Remove(env.Layout.DocumentPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing memory document: %w", err)
	}

	if err := synthesis.ClearState(env.Layout.StatePath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  %s Removed %d session records, the memory document and synthesis state\n",
		cliui.SuccessMark, removed)
	return nil
}
