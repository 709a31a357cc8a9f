package hash

import (
	"context"
	"fmt"

	"github.com/IvanShishkin/winsentry/internal/detectors"
	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Extensions whose content is hashed
var Extensions = []string{"exe", "dll", "scr", "bat", "cmd"}

// Detector looks up the content digest in the known-malware table
type Detector struct {
	*detectors.BaseDetector
	algorithm  string
	beforeHash func(path string)
}

// NewDetector creates a new hash detector. beforeHash, when set, is called
// before each digest is computed.
func NewDetector(algorithm string, beforeHash func(path string)) *Detector {
	return &Detector{
		BaseDetector: detectors.NewBaseDetector("hash", 20, Extensions),
		algorithm:    algorithm,
		beforeHash:   beforeHash,
	}
}

// Detect hashes the file and reports a known-malware hit
func (d *Detector) Detect(ctx context.Context, file *models.FileAttributes, store *signatures.Store) ([]models.Finding, error) {
	if d.beforeHash != nil {
		d.beforeHash(file.Path)
	}

	digest, err := filesystem.HashFile(file.Path, d.algorithm)
	if err != nil {
		return nil, err
	}

	label, ok := store.LookupHash(digest)
	if !ok {
		return nil, nil
	}

	return []models.Finding{detectors.NewFinding(file,
		models.RuleKnownHash,
		models.SeverityCritical,
		fmt.Sprintf("Known malware hash: %s", label),
	)}, nil
}
