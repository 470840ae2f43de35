package oracle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const defaultClaudeBinary = "claude"

// newClaudeCaller runs the local Claude Code CLI in print mode. The process is
// killed when ctx expires.
func newClaudeCaller(binary, model string) CallFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		args := []string{"-p", prompt}
		if model != "" {
			args = append(args, "--model", model)
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, binary, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return "", fmt.Errorf("claude cli: %w", ctx.Err())
			}
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return "", fmt.Errorf("claude cli: %w: %s", err, msg)
			}
			return "", fmt.Errorf("claude cli: %w", err)
		}

		out := strings.TrimSpace(stdout.String())
		if out == "" {
			return "", errors.New("claude cli returned no output")
		}
		return out, nil
	}
}
