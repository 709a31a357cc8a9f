package quarantine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

// Entry describes one quarantined file
type Entry struct {
	Name          string    `json:"name" yaml:"name"`
	Path          string    `json:"path" yaml:"path"`
	Size          int64     `json:"size" yaml:"size"`
	QuarantinedAt time.Time `json:"quarantined_at" yaml:"quarantined_at"`
}

// Store isolates files in a single managed directory
type Store struct {
	dir       string
	protected []string
	logger    *zap.Logger

	// mu serializes destination name resolution with the move
	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a quarantine store rooted at dir. Paths under any of
// the protected directories are refused.
func NewStore(dir string, protected []string, logger *zap.Logger) *Store {
	return &Store{
		dir:       dir,
		protected: protected,
		logger:    logger,
		now:       time.Now,
	}
}

// Dir returns the quarantine directory
func (s *Store) Dir() string {
	return s.dir
}

// Quarantine moves path into the quarantine directory and returns the new
// location. The base name is kept unless it collides with an existing
// entry, in which case a name_YYYYMMDD_HHMMSS.ext suffix is used.
func (s *Store) Quarantine(path string) (string, error) {
	if filesystem.IsProtected(path, s.protected) {
		return "", models.NewOpError("quarantine", path, models.ErrProtectedTarget, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", filesystem.ClassifyError("quarantine", path, err)
	}
	if info.IsDir() {
		return "", models.Errorf("quarantine", path, nil, "is a directory")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", filesystem.ClassifyError("quarantine", s.dir, err)
	}

	now := s.now()
	dest, err := s.reserve(filepath.Base(path), now)
	if err != nil {
		return "", filesystem.ClassifyError("quarantine", path, err)
	}

	if err := s.move(path, dest); err != nil {
		os.Remove(dest)
		return "", filesystem.ClassifyError("quarantine", path, err)
	}

	// A rename keeps the original mtime, List reads the quarantine time from it
	if err := os.Chtimes(dest, now, now); err != nil {
		s.logger.Warn("Failed to stamp quarantine time", zap.String("dest", dest), zap.Error(err))
	}

	s.logger.Info("File quarantined", zap.String("path", path), zap.String("dest", dest))
	return dest, nil
}

// reserve picks a free destination and creates it empty, so that no other
// writer can claim the same name before the move replaces it
func (s *Store) reserve(name string, now time.Time) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	stamp := now.Format("20060102_150405")

	candidates := []string{name, fmt.Sprintf("%s_%s%s", stem, stamp, ext)}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s_%s_%d%s", stem, stamp, i, ext))
	}

	for _, c := range candidates {
		dest := filepath.Join(s.dir, c)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		f.Close()
		return dest, nil
	}
	return "", fmt.Errorf("no free quarantine name for %s", name)
}

// move replaces the reserved placeholder at dst with src
func (s *Store) move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Cross-volume: drop the placeholder and copy
	if err := os.Remove(dst); err != nil {
		return err
	}
	return filesystem.MoveFile(src, dst)
}

// List returns the quarantined files, oldest first
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, filesystem.ClassifyError("list", s.dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:          de.Name(),
			Path:          filepath.Join(s.dir, de.Name()),
			Size:          info.Size(),
			QuarantinedAt: info.ModTime(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].QuarantinedAt.Before(entries[j].QuarantinedAt)
	})
	return entries, nil
}

// Restore moves a quarantined file into dir, keeping its quarantine name.
// An existing file at the destination is never overwritten.
func (s *Store) Restore(name, dir string) (string, error) {
	name = filepath.Base(name)
	src := filepath.Join(s.dir, name)
	if _, err := os.Stat(src); err != nil {
		return "", filesystem.ClassifyError("restore", name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", filesystem.ClassifyError("restore", dir, err)
	}

	dest := filepath.Join(dir, name)
	if filesystem.Exists(dest) {
		return "", models.NewOpError("restore", dest, nil, fs.ErrExist)
	}

	if err := filesystem.MoveFile(src, dest); err != nil {
		return "", filesystem.ClassifyError("restore", name, err)
	}

	s.logger.Info("File restored", zap.String("name", name), zap.String("dest", dest))
	return dest, nil
}
