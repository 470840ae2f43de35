// Package git provides utilities for detecting git repository information.
package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const detectTimeout = 5 * time.Second

// TopLevel returns the root of the git work tree containing dir. It runs
// "git -C dir rev-parse --show-toplevel" and reports false when dir is not
// inside a repository or git is not installed.
func TopLevel(ctx context.Context, dir string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", false
	}

	top := strings.TrimSpace(string(out))
	if top == "" {
		return "", false
	}
	return filepath.FromSlash(top), true
}

// RepoName returns the name of the git repository containing dir.
// If dir is not inside a git repo, it falls back to the base name of dir.
func RepoName(ctx context.Context, dir string) string {
	if top, ok := TopLevel(ctx, dir); ok {
		return filepath.Base(top)
	}
	return filepath.Base(filepath.Clean(dir))
}
