package models

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a finding.
// Values are ordered: Low < Medium < High < Critical.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

// String returns the display label of the severity
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText encodes the severity as its label
func (s Severity) MarshalText() ([]byte, error) {
	if _, ok := severityNames[s]; !ok {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity label (case-insensitive)
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a label such as "high" into a Severity.
// Unknown labels are an error rather than a silent default.
func ParseSeverity(label string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(name, strings.TrimSpace(label)) {
			return sev, nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", label)
}

// RuleType identifies which detection rule produced a finding
type RuleType string

const (
	RuleKnownHash          RuleType = "KnownHash"
	RuleSuspiciousPattern  RuleType = "SuspiciousPattern"
	RuleSuspiciousLocation RuleType = "SuspiciousLocation"
	RuleHiddenExecutable   RuleType = "HiddenExecutable"
)

// Finding represents one detected issue on one file
type Finding struct {
	Path        string   `json:"path" yaml:"path"`
	Size        int64    `json:"size" yaml:"size"`
	Rule        RuleType `json:"rule" yaml:"rule"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// MaxSeverity returns the most severe level present in findings,
// or zero if findings is empty.
func MaxSeverity(findings []Finding) Severity {
	var max Severity
	for _, f := range findings {
		if f.Severity > max {
			max = f.Severity
		}
	}
	return max
}
