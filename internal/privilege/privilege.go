// Package privilege reports whether the current process may mutate
// system-wide security settings.
package privilege

// Guard reports whether the caller is elevated
type Guard func() bool

// Current returns the guard for the running process
func Current() Guard {
	return IsElevated
}
