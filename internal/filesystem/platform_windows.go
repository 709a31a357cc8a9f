//go:build windows

package filesystem

import (
	"os"

	"golang.org/x/sys/windows"
)

// isHidden reads FILE_ATTRIBUTE_HIDDEN
func isHidden(path string, _ os.FileInfo) bool {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0
}
