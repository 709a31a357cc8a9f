package models

import "time"

// FileAttributes contains basic file metadata without content
type FileAttributes struct {
	Path      string    // Full file path
	Name      string    // Base name
	Extension string    // Lower-case extension without dot
	Size      int64     // Size in bytes
	ModTime   time.Time // Modification time
	Hidden    bool      // OS-reported hidden attribute
	Regular   bool      // Not a directory, device or other special file
}
