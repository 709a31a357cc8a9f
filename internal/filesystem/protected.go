package filesystem

import (
	"path/filepath"
	"strings"
)

// IsProtected reports whether path lies inside one of the protected
// directories. Comparison is case-insensitive and works on Windows-style
// paths regardless of the host OS.
func IsProtected(path string, protected []string) bool {
	candidates := []string{path}
	if abs, err := filepath.Abs(path); err == nil && abs != path {
		candidates = append(candidates, abs)
	}
	for _, c := range candidates {
		for _, p := range protected {
			if HasPathPrefix(c, p) {
				return true
			}
		}
	}
	return false
}

// HasPathPrefix reports whether path equals dir or lies below it, ignoring
// case and treating / and \ as the same separator
func HasPathPrefix(path, dir string) bool {
	path = normalizePath(path)
	dir = strings.TrimRight(normalizePath(dir), "/")
	if dir == "" {
		return false
	}
	return path == dir || strings.HasPrefix(path, dir+"/")
}

func normalizePath(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, `\`, "/"))
}
