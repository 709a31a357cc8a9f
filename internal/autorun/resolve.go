package autorun

import "strings"

// ResolveExecutablePath extracts the executable from a startup command.
//
// A quoted command yields the text between the first pair of quotes.
// Otherwise, when the whole command is not an existing path, the text up
// to the first space is used; an existing path is taken as is. If the
// chosen candidate does not exist but the whole command does, the whole
// command wins.
func ResolveExecutablePath(raw string, exists func(string) bool) string {
	raw = strings.TrimSpace(raw)

	var candidate string
	switch {
	case strings.HasPrefix(raw, `"`):
		rest := raw[1:]
		if end := strings.Index(rest, `"`); end >= 0 {
			candidate = rest[:end]
		} else {
			candidate = rest
		}
	case !exists(raw):
		candidate, _, _ = strings.Cut(raw, " ")
	default:
		candidate = raw
	}

	if !exists(candidate) && exists(raw) {
		return raw
	}
	return candidate
}
