package models

// SignatureDatabase is the persisted detection data
type SignatureDatabase struct {
	Version         int               `yaml:"version" json:"version"`
	Hashes          map[string]string `yaml:"hashes" json:"hashes"`                     // hex digest -> family label
	Patterns        []string          `yaml:"patterns" json:"patterns"`                 // filename regexps, in evaluation order
	SuspiciousNames []string          `yaml:"suspicious_names" json:"suspicious_names"` // reserved system process names
}

// NewSignatureDatabase creates an empty but valid database
func NewSignatureDatabase() *SignatureDatabase {
	return &SignatureDatabase{
		Hashes:          make(map[string]string),
		Patterns:        make([]string, 0),
		SuspiciousNames: make([]string, 0),
	}
}

// DefaultSignatureDatabase returns the database written on first run.
// The example digest is the SHA-256 of the EICAR test file.
func DefaultSignatureDatabase() *SignatureDatabase {
	return &SignatureDatabase{
		Version: 1,
		Hashes: map[string]string{
			"275a021bbfb6489e54d471899f7db9d1663fc695ec2fe2a2c4538aabf651fd0f": "EICAR-Test-File",
		},
		Patterns: []string{
			`.*\.exe\.exe$`, // double extension
			`.*\.scr$`,      // screensaver
			`.*\.pif$`,      // program information file
		},
		SuspiciousNames: []string{
			"svchost.exe",
			"csrss.exe",
			"winlogon.exe",
		},
	}
}
