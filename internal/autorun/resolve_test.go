package autorun

import "testing"

func existsIn(paths ...string) func(string) bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return func(p string) bool { return set[p] }
}

func TestResolveExecutablePath(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		existing []string
		expected string
	}{
		{
			"Quoted path with spaces and arguments",
			`"C:\Prog Files\x.exe" --flag`,
			nil,
			`C:\Prog Files\x.exe`,
		},
		{
			"Unquoted path with arguments",
			`C:\x.exe --flag`,
			[]string{`C:\x.exe`},
			`C:\x.exe`,
		},
		{
			"Nothing exists falls back to first token",
			`notexist --flag`,
			nil,
			`notexist`,
		},
		{
			"Unquoted existing path with internal spaces",
			`C:\Program Files\App\app.exe`,
			[]string{`C:\Program Files\App\app.exe`},
			`C:\Program Files\App\app.exe`,
		},
		{
			"Unquoted path with spaces that does not exist",
			`C:\Program Files\App\app.exe /min`,
			nil,
			`C:\Program`,
		},
		{
			"Unterminated quote",
			`"C:\Tools\run.exe`,
			nil,
			`C:\Tools\run.exe`,
		},
		{
			"Quoted candidate missing but raw exists",
			`"odd"name.exe`,
			[]string{`"odd"name.exe`},
			`"odd"name.exe`,
		},
		{
			"Surrounding whitespace",
			`  C:\y.exe -s  `,
			[]string{`C:\y.exe`},
			`C:\y.exe`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveExecutablePath(tt.raw, existsIn(tt.existing...))
			if got != tt.expected {
				t.Errorf("ResolveExecutablePath(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}
