package pattern

import (
	"context"
	"fmt"

	"github.com/IvanShishkin/winsentry/internal/detectors"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Detector matches file names against the signature patterns
type Detector struct {
	*detectors.BaseDetector
}

// NewDetector creates a new file name pattern detector
func NewDetector() *Detector {
	return &Detector{
		BaseDetector: detectors.NewBaseDetector("pattern", 40, []string{"*"}),
	}
}

// Detect reports one finding per matching pattern, in listed order
func (d *Detector) Detect(ctx context.Context, file *models.FileAttributes, store *signatures.Store) ([]models.Finding, error) {
	var findings []models.Finding
	for _, p := range store.MatchingPatterns(file.Name) {
		findings = append(findings, detectors.NewFinding(file,
			models.RuleSuspiciousPattern,
			models.SeverityMedium,
			fmt.Sprintf("File name matches suspicious pattern: %s", p),
		))
	}
	return findings, nil
}
