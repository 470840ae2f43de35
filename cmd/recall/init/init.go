// Package initcmder provides the init command, which prepares the memory
// directory under the Claude home directory.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/recall/cmd/recall/cmdenv"
	"github.com/papercomputeco/recall/pkg/cliui"
	"github.com/papercomputeco/recall/pkg/config"
	"github.com/papercomputeco/recall/pkg/dotdir"
	"github.com/papercomputeco/recall/pkg/synthesis"
)

const initLongDesc string = `Initialize automatic memory.

Creates <claude-home>/memory with its sessions and synthesis directories,
writes a default memory-config.toml and a placeholder MEMORY.md, and makes
<claude-home>/CLAUDE.md import the memory document. Existing files are left
untouched, so init is safe to re-run.

Register the hooks afterwards:
  SessionEnd     recall hook session-end
  SessionStart   recall hook session-start

Examples:
  recall init
  recall init --claude-home ~/work/.claude`

const initShortDesc string = "Initialize automatic memory"

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdenv.Resolve(cmd)
			if err != nil {
				return err
			}
			return runInit(cmd.OutOrStdout(), env.Layout)
		},
	}

	return cmd
}

func runInit(w io.Writer, layout *dotdir.Layout) error {
	fmt.Fprintf(w, "\n  %s %s\n\n", cliui.TitleStyle.Render("Initializing memory in"), cliui.DimStyle.Render(layout.MemoryDir))

	if err := cliui.Step(w, "Creating directories", layout.EnsureDirs); err != nil {
		return err
	}

	if err := cliui.Step(w, "Writing default configuration", func() error {
		return writeIfMissing(layout.ConfigPath, func() error {
			return config.Save(layout.ConfigPath, config.NewDefaultConfig())
		})
	}); err != nil {
		return err
	}

	if err := cliui.Step(w, "Writing memory document", func() error {
		return writeIfMissing(layout.DocumentPath, func() error {
			return os.WriteFile(layout.DocumentPath, []byte(synthesis.InitialDocument()), 0o644)
		})
	}); err != nil {
		return err
	}

	var status dotdir.ImportStatus
	if err := cliui.Step(w, "Importing memory into CLAUDE.md", func() error {
		var err error
		status, err = dotdir.EnsureImport(layout.InstructionsMD)
		return err
	}); err != nil {
		return err
	}

	switch status {
	case dotdir.ImportCreated:
		fmt.Fprintf(w, "\n  Created %s\n", cliui.DimStyle.Render(layout.InstructionsMD))
	case dotdir.ImportAdded:
		fmt.Fprintf(w, "\n  Added %s to %s\n", cliui.NameStyle.Render(dotdir.ImportLine), cliui.DimStyle.Render(layout.InstructionsMD))
	case dotdir.ImportPresent:
		fmt.Fprintf(w, "\n  %s already imports the memory document\n", cliui.DimStyle.Render(layout.InstructionsMD))
	}

	fmt.Fprintf(w, "\n  Register the hooks in your assistant settings:\n")
	fmt.Fprintf(w, "    %s  %s\n", cliui.KeyStyle.Render("SessionEnd  "), "recall hook session-end")
	fmt.Fprintf(w, "    %s  %s\n\n", cliui.KeyStyle.Render("SessionStart"), "recall hook session-start")

	return nil
}

// writeIfMissing runs write only when path does not exist yet.
func writeIfMissing(path string, write func() error) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return write()
}
