// Package local provides a filesystem implementation of the memory.Store
// interface.
//
// Each record is one pretty-printed JSON file in the sessions directory,
// named after the second it was created. Files are created exclusively; when
// two sessions end within the same second the later one gains a ULID suffix
// instead of overwriting the earlier record. There is no locking: writers
// never share a file name and synthesis only deletes files it has already
// read.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/papercomputeco/recall/pkg/memory"
)

const (
	filePrefix = "session_"
	fileSuffix = ".json"
	fileGlob   = filePrefix + "*" + fileSuffix
)

// Store implements memory.Store on a directory of JSON files.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store over dir. The directory is created lazily on the
// first Save.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the sessions directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes rec as session_<id>.json, or session_<id>_<ULID>.json when that
// name is taken.
func (s *Store) Save(_ context.Context, rec *memory.SessionRecord) (string, error) {
	if rec == nil {
		return "", errors.New("cannot save nil record")
	}
	if rec.SessionID == "" {
		return "", errors.New("cannot save record without session id")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling session record: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating sessions dir: %w", err)
	}

	path := filepath.Join(s.dir, filePrefix+rec.SessionID+fileSuffix)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		path = filepath.Join(s.dir, filePrefix+rec.SessionID+"_"+ulid.Make().String()+fileSuffix)
		s.logger.Debug("session record name taken, using suffixed name", "path", path)
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	}
	if err != nil {
		return "", fmt.Errorf("creating session record: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing session record: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing session record: %w", err)
	}

	return path, nil
}

// Records loads every record in file-name order. Files that cannot be read or
// decoded are skipped with a warning.
func (s *Store) Records(_ context.Context) ([]*memory.SessionRecord, error) {
	paths, err := s.paths()
	if err != nil {
		return nil, err
	}

	records := make([]*memory.SessionRecord, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable session record", "path", path, "error", err)
			continue
		}

		rec := &memory.SessionRecord{}
		if err := json.Unmarshal(data, rec); err != nil {
			s.logger.Warn("skipping corrupt session record", "path", path, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Pending counts session record files.
func (s *Store) Pending(_ context.Context) (int, error) {
	paths, err := s.paths()
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// Prune removes records whose file-name timestamp, read in local time, is
// before cutoff. Files whose names do not carry a timestamp are left alone.
func (s *Store) Prune(_ context.Context, cutoff time.Time) (int, error) {
	paths, err := s.paths()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		created, ok := FileTime(filepath.Base(path))
		if !ok {
			s.logger.Debug("skipping session record with malformed name", "path", path)
			continue
		}
		if !created.Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to remove session record", "path", path, "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}

// Clear removes every record file.
func (s *Store) Clear(_ context.Context) (int, error) {
	paths, err := s.paths()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("removing session record: %w", err)
		}
		removed++
	}
	return removed, nil
}

// FileTime parses the creation time from a record file name such as
// session_20250101_120000.json or session_20250101_120000_<ULID>.json.
func FileTime(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}

	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if len(stamp) > len(memory.SessionIDLayout) {
		if stamp[len(memory.SessionIDLayout)] != '_' {
			return time.Time{}, false
		}
		stamp = stamp[:len(memory.SessionIDLayout)]
	}

	t, err := time.ParseInLocation(memory.SessionIDLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// paths lists record files sorted by name. A missing directory has no
// records.
func (s *Store) paths() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, fileGlob))
	if err != nil {
		return nil, fmt.Errorf("listing session records: %w", err)
	}

	files := paths[:0]
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}
