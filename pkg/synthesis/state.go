package synthesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/papercomputeco/recall/pkg/memory"
)

const stateVersion = "1.0"

// State records when synthesis last completed.
type State struct {
	LastSynthesis string `json:"last_synthesis"`
	Version       string `json:"version"`
}

// Last returns the parsed last synthesis time. It reports false for a nil
// state or an unparsable timestamp.
func (s *State) Last() (time.Time, bool) {
	if s == nil || s.LastSynthesis == "" {
		return time.Time{}, false
	}
	t, err := memory.ParseTimestamp(s.LastSynthesis)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LoadState reads the state file. A missing file returns nil, nil: synthesis
// has never run.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading synthesis state: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing synthesis state: %w", err)
	}

	return state, nil
}

// SaveState atomically records at as the last synthesis time.
func SaveState(path string, at time.Time) error {
	state := &State{
		LastSynthesis: memory.FormatTimestamp(at),
		Version:       stateVersion,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling synthesis state: %w", err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("persisting synthesis state: %w", err)
	}
	return nil
}

// ClearState removes the state file.
func ClearState(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing synthesis state: %w", err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in path's directory and renames
// it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
