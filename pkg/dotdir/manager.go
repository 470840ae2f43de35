// Package dotdir resolves the Claude home directory and the memory layout
// that recall reads and writes underneath it.
//
// Nothing here assumes `recall init` has run: directories are created lazily
// by the component that first needs to write into them.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the default home directory name under the user's home.
	dirName = ".claude"

	// HomeEnv overrides the home directory when no explicit override is given.
	HomeEnv = "CLAUDE_HOME"

	memoryDirName    = "memory"
	sessionsDirName  = "sessions"
	synthesisDirName = "synthesis"
	projectsDirName  = "projects"
	configFileName   = "memory-config.toml"
	documentFileName = "MEMORY.md"
	stateFileName    = "last-synthesis.json"
	logFileName      = "recall.log"
	credentialsFile  = "credentials.toml"
	instructionsFile = "CLAUDE.md"
)

// Layout holds every path recall touches. All paths are absolute.
type Layout struct {
	Home            string
	MemoryDir       string
	SessionsDir     string
	SynthesisDir    string
	TranscriptsRoot string
	ConfigPath      string
	DocumentPath    string
	StatePath       string
	LogPath         string
	CredentialsPath string
	InstructionsMD  string
}

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Home returns the absolute home directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. $CLAUDE_HOME
//  3. ~/.claude
//
// The directory is not created.
func (m *Manager) Home(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case os.Getenv(HomeEnv) != "":
		dir = os.Getenv(HomeEnv)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	return filepath.Abs(dir)
}

// Layout resolves the home directory and derives the memory layout from it.
func (m *Manager) Layout(overrideDir string) (*Layout, error) {
	home, err := m.Home(overrideDir)
	if err != nil {
		return nil, err
	}
	return NewLayout(home), nil
}

// NewLayout derives the memory layout from an absolute home directory.
func NewLayout(home string) *Layout {
	memoryDir := filepath.Join(home, memoryDirName)
	synthesisDir := filepath.Join(memoryDir, synthesisDirName)

	return &Layout{
		Home:            home,
		MemoryDir:       memoryDir,
		SessionsDir:     filepath.Join(memoryDir, sessionsDirName),
		SynthesisDir:    synthesisDir,
		TranscriptsRoot: filepath.Join(home, projectsDirName),
		ConfigPath:      filepath.Join(memoryDir, configFileName),
		DocumentPath:    filepath.Join(memoryDir, documentFileName),
		StatePath:       filepath.Join(synthesisDir, stateFileName),
		LogPath:         filepath.Join(memoryDir, logFileName),
		CredentialsPath: filepath.Join(memoryDir, credentialsFile),
		InstructionsMD:  filepath.Join(home, instructionsFile),
	}
}

// EnsureDirs creates the memory, sessions and synthesis directories.
func (l *Layout) EnsureDirs() error {
	for _, dir := range []string{l.MemoryDir, l.SessionsDir, l.SynthesisDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
