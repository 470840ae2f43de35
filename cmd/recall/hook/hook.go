// Package hookcmder provides the commands the assistant runs on session
// lifecycle events. Hook commands never write to stdout and only exit
// non-zero when a session record could not be persisted.
package hookcmder

import (
	"github.com/spf13/cobra"
)

const hookLongDesc string = `Run a session lifecycle hook.

Hooks are invoked by the assistant, not by hand. Register them in the
assistant's settings:

  SessionEnd     recall hook session-end
  SessionStart   recall hook session-start

session-end reads the hook payload from stdin, extracts memorable facts from
the finished session and stores them as a session record.

session-start checks whether synthesis is due and, when records are waiting,
launches "recall synthesize" in the background.`

const hookShortDesc string = "Run a session lifecycle hook"

func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: hookShortDesc,
		Long:  hookLongDesc,
	}

	cmd.AddCommand(newSessionEndCmd())
	cmd.AddCommand(newSessionStartCmd())

	return cmd
}
