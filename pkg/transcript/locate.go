package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sessionsIndexFile is the per-project index Claude Code keeps alongside
// its transcripts.
const sessionsIndexFile = "sessions-index.json"

type sessionsIndex struct {
	Entries []sessionsIndexEntry `json:"entries"`
}

type sessionsIndexEntry struct {
	SessionID string `json:"sessionId"`
	FullPath  string `json:"fullPath"`
}

// Locator finds the transcript file for a session under a transcripts root
// (normally <claude home>/projects).
type Locator struct {
	root string
}

// NewLocator creates a Locator rooted at root.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Locate resolves the transcript for sessionID. A directPath that exists wins.
// Otherwise the project directory derived from workingDir is searched, and
// finally every project directory under the root in name order. Missing
// directories are never an error; the second return value is false when
// nothing was found.
func (l *Locator) Locate(sessionID, workingDir, directPath string) (string, bool) {
	if directPath != "" && fileExists(directPath) {
		return directPath, true
	}

	if sessionID == "" || l.root == "" {
		return "", false
	}

	if workingDir != "" {
		dir := filepath.Join(l.root, ProjectDirName(workingDir))
		if path, ok := lookupInProject(dir, sessionID); ok {
			return path, true
		}
	}

	entries, err := os.ReadDir(l.root)
	if err != nil {
		return "", false
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if path, ok := lookupInProject(filepath.Join(l.root, name), sessionID); ok {
			return path, true
		}
	}

	return "", false
}

// ProjectDirName derives the transcript directory name Claude Code uses for a
// working directory: backslashes become slashes, a leading drive "C:" becomes
// "C-", and every slash becomes a dash.
func ProjectDirName(workingDir string) string {
	name := strings.ReplaceAll(workingDir, `\`, "/")
	if len(name) >= 2 && name[1] == ':' && isASCIILetter(name[0]) {
		name = name[:1] + "-" + name[2:]
	}
	return strings.ReplaceAll(name, "/", "-")
}

func lookupInProject(dir, sessionID string) (string, bool) {
	if path, ok := lookupIndex(dir, sessionID); ok {
		return path, true
	}

	path := filepath.Join(dir, sessionID+".jsonl")
	if fileExists(path) {
		return path, true
	}
	return "", false
}

func lookupIndex(dir, sessionID string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, sessionsIndexFile))
	if err != nil {
		return "", false
	}

	var index sessionsIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return "", false
	}

	for _, entry := range index.Entries {
		if entry.SessionID == sessionID && entry.FullPath != "" && fileExists(entry.FullPath) {
			return entry.FullPath, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
