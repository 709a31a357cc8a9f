package models

import "path/filepath"

// ScanResult aggregates every finding for a single file
type ScanResult struct {
	Path        string    `json:"path" yaml:"path"`
	Name        string    `json:"name" yaml:"name"`
	Size        int64     `json:"size" yaml:"size"`
	Findings    []Finding `json:"findings" yaml:"findings"`
	MaxSeverity Severity  `json:"max_severity" yaml:"max_severity"`
}

// NewScanResult builds a result for path, or returns nil when there is
// nothing to report. A clean file never yields an empty result.
func NewScanResult(path string, size int64, findings []Finding) *ScanResult {
	if len(findings) == 0 {
		return nil
	}
	return &ScanResult{
		Path:        path,
		Name:        filepath.Base(path),
		Size:        size,
		Findings:    findings,
		MaxSeverity: MaxSeverity(findings),
	}
}

// HasRule reports whether any finding was produced by rule
func (r *ScanResult) HasRule(rule RuleType) bool {
	for _, f := range r.Findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

// ProcessFinding represents a running process that impersonates a reserved
// system process name from outside the system directory.
type ProcessFinding struct {
	PID      int32    `json:"pid" yaml:"pid"`
	Name     string   `json:"name" yaml:"name"`
	Path     string   `json:"path" yaml:"path"`
	Reason   string   `json:"reason" yaml:"reason"`
	Severity Severity `json:"severity" yaml:"severity"`
}
