package hidden

import (
	"context"

	"github.com/IvanShishkin/winsentry/internal/detectors"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Extensions checked for the hidden attribute
var Extensions = []string{"exe", "bat", "cmd", "scr"}

// Detector flags executables carrying the hidden attribute
type Detector struct {
	*detectors.BaseDetector
}

// NewDetector creates a new hidden executable detector
func NewDetector() *Detector {
	return &Detector{
		BaseDetector: detectors.NewBaseDetector("hidden", 10, Extensions),
	}
}

// Detect reports hidden executables
func (d *Detector) Detect(ctx context.Context, file *models.FileAttributes, store *signatures.Store) ([]models.Finding, error) {
	if !file.Hidden {
		return nil, nil
	}
	return []models.Finding{detectors.NewFinding(file,
		models.RuleHiddenExecutable,
		models.SeverityMedium,
		"Hidden executable file",
	)}, nil
}
