//go:build !windows

package filesystem

import "os"

// isHidden treats dot files as hidden
func isHidden(_ string, info os.FileInfo) bool {
	name := info.Name()
	return len(name) > 0 && name[0] == '.'
}
