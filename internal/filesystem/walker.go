package filesystem

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"

	"github.com/IvanShishkin/winsentry/internal/config"
	"go.uber.org/zap"
)

// Walker walks the filesystem and finds files to scan
type Walker struct {
	logger *zap.Logger
	onDir  func(dir string)
}

// NewWalker creates a new filesystem walker. onDir, when set, is called
// before the entries of each directory are visited.
func NewWalker(logger *zap.Logger, onDir func(dir string)) *Walker {
	return &Walker{
		logger: logger,
		onDir:  onDir,
	}
}

// Files returns the regular files under root whose extension is in exts.
// The sequence is lazy and may be ranged over more than once; each range
// walks the tree again. Unreadable directories are skipped.
func (w *Walker) Files(root string, exts []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					w.logger.Debug("Skipping unreadable path", zap.String("path", path), zap.Error(err))
				} else {
					w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil // Continue walking
			}

			if d.IsDir() {
				if w.onDir != nil {
					w.onDir(path)
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if len(exts) > 0 && !config.ContainsExtension(exts, GetExtension(path)) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
