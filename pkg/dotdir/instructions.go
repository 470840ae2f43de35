package dotdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ImportLine makes the assistant load the synthesized document.
	ImportLine = "@memory/MEMORY.md"

	importHeading = "# Automatic Memory"

	newInstructions = "# User Memory\n" + ImportLine + "\n\n# Manual Notes\nAdd any personal notes or preferences here.\n"
)

// ImportStatus reports what EnsureImport did.
type ImportStatus int

const (
	ImportPresent ImportStatus = iota
	ImportAdded
	ImportCreated
)

// EnsureImport makes the instructions file at path import the memory
// document. A missing file is created; an existing file without the import
// gets it prepended under its own heading.
func EnsureImport(path string) (ImportStatus, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(newInstructions), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", path, err)
		}
		return ImportCreated, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(data)
	if strings.Contains(content, ImportLine) {
		return ImportPresent, nil
	}

	content = importHeading + "\n" + ImportLine + "\n\n" + content
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return ImportAdded, nil
}

// RemoveImport strips the import line, its heading and one blank line after
// the import. It reports whether the file changed. A missing file is not an
// error.
func RemoveImport(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	kept := make([]string, 0, len(lines))
	skipBlank := false
	changed := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == importHeading:
			changed = true
			continue
		case trimmed == ImportLine:
			changed = true
			skipBlank = true
			continue
		case skipBlank && trimmed == "":
			skipBlank = false
			continue
		}
		skipBlank = false
		kept = append(kept, line)
	}

	if !changed {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
