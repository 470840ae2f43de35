// Package spawn launches recall subcommands as detached background
// processes that outlive the invoking hook.
package spawn

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Detached describes a background invocation of the current executable.
type Detached struct {
	// Executable is the binary to run. Empty means the running executable.
	Executable string

	// Args are passed to the executable.
	Args []string

	// LogPath receives the child's stdout and stderr. Empty discards them.
	LogPath string
}

// Start launches the process in its own session with stdin closed and
// returns without waiting for it. The child is reaped in the background if
// it exits while the caller is still running.
func (d *Detached) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	execPath := d.Executable
	if execPath == "" {
		var err error
		execPath, err = os.Executable()
		if err != nil {
			return fmt.Errorf("resolving executable: %w", err)
		}
	}

	out, err := d.output()
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	// Not CommandContext: the child must survive the caller's context.
	cmd := exec.Command(execPath, d.Args...)
	cmd.Stdin = nil
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", execPath, err)
	}

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (d *Detached) output() (*os.File, error) {
	if d.LogPath == "" {
		f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", os.DevNull, err)
		}
		return f, nil
	}

	f, err := os.OpenFile(d.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
