package location

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/IvanShishkin/winsentry/internal/detectors"
	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Detector flags reserved system binary names found outside the system directory
type Detector struct {
	*detectors.BaseDetector
	systemDir string
}

// NewDetector creates a new location detector for systemDir
func NewDetector(systemDir string) *Detector {
	return &Detector{
		BaseDetector: detectors.NewBaseDetector("location", 30, []string{"*"}),
		systemDir:    systemDir,
	}
}

// Detect scans a file for a reserved name in an unexpected directory
func (d *Detector) Detect(ctx context.Context, file *models.FileAttributes, store *signatures.Store) ([]models.Finding, error) {
	if !store.IsReservedName(file.Name) {
		return nil, nil
	}

	resolved := file.Path
	if abs, err := filepath.Abs(file.Path); err == nil {
		resolved = abs
	}
	if filesystem.HasPathPrefix(resolved, d.systemDir) || filesystem.HasPathPrefix(file.Path, d.systemDir) {
		return nil, nil
	}

	return []models.Finding{detectors.NewFinding(file,
		models.RuleSuspiciousLocation,
		models.SeverityHigh,
		fmt.Sprintf("System file name %s outside %s", file.Name, d.systemDir),
	)}, nil
}
