package detectors

import (
	"context"
	"slices"
	"strings"

	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Detector is the interface that all file rules must implement
type Detector interface {
	// Name returns the detector name
	Name() string

	// Priority returns the detector priority (higher = earlier execution)
	Priority() int

	// SupportedExtensions returns list of file extensions this detector can handle
	SupportedExtensions() []string

	// Detect evaluates a file against the given signature store snapshot
	Detect(ctx context.Context, file *models.FileAttributes, store *signatures.Store) ([]models.Finding, error)

	// IsEnabled returns whether this detector is enabled
	IsEnabled() bool

	// SetEnabled enables or disables this detector
	SetEnabled(enabled bool)
}

// BaseDetector provides common functionality for detectors
type BaseDetector struct {
	name       string
	priority   int
	extensions []string
	enabled    bool
}

// NewBaseDetector creates a new base detector
func NewBaseDetector(name string, priority int, extensions []string) *BaseDetector {
	return &BaseDetector{
		name:       name,
		priority:   priority,
		extensions: extensions,
		enabled:    true,
	}
}

// Name returns the detector name
func (d *BaseDetector) Name() string {
	return d.name
}

// Priority returns the detector priority
func (d *BaseDetector) Priority() int {
	return d.priority
}

// SupportedExtensions returns supported file extensions
func (d *BaseDetector) SupportedExtensions() []string {
	return d.extensions
}

// IsEnabled returns whether this detector is enabled
func (d *BaseDetector) IsEnabled() bool {
	return d.enabled
}

// SetEnabled enables or disables this detector
func (d *BaseDetector) SetEnabled(enabled bool) {
	d.enabled = enabled
}

// SupportsFile checks if this detector supports the given file extension
func (d *BaseDetector) SupportsFile(extension string) bool {
	return supports(d.extensions, extension)
}

// Supports reports whether d handles extension, ignoring case
func Supports(d Detector, extension string) bool {
	return supports(d.SupportedExtensions(), extension)
}

func supports(exts []string, extension string) bool {
	if len(exts) == 0 {
		return true
	}
	return slices.ContainsFunc(exts, func(ext string) bool {
		return ext == "*" || strings.EqualFold(ext, extension)
	})
}

// NewFinding builds a finding for file
func NewFinding(file *models.FileAttributes, rule models.RuleType, severity models.Severity, description string) models.Finding {
	return models.Finding{
		Path:        file.Path,
		Size:        file.Size,
		Rule:        rule,
		Description: description,
		Severity:    severity,
	}
}
