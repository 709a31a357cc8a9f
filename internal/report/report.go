package report

import (
	"os"
	"time"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/google/uuid"
)

// Report modes
const (
	ModeQuick     = "quick"
	ModeFull      = "full"
	ModeCustom    = "custom"
	ModeProcesses = "processes"
	ModePosture   = "posture"
	ModeAutoruns  = "autoruns"
	ModeHarden    = "harden"
	ModeWatch     = "watch"
)

// ScanReport collects the results of one command run. Sections that were
// not requested stay empty and are left out of file output.
type ScanReport struct {
	ID        uuid.UUID     `json:"id" yaml:"id"`
	Version   string        `json:"version" yaml:"version"`
	Host      string        `json:"host" yaml:"host"`
	Mode      string        `json:"mode" yaml:"mode"`
	Paths     []string      `json:"paths,omitempty" yaml:"paths,omitempty"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	Results   []*models.ScanResult                     `json:"results,omitempty" yaml:"results,omitempty"`
	Processes []models.ProcessFinding                  `json:"processes,omitempty" yaml:"processes,omitempty"`
	Posture   map[models.CheckName]models.PostureCheck `json:"posture,omitempty" yaml:"posture,omitempty"`
	Autoruns  []models.AutorunEntry                    `json:"autoruns,omitempty" yaml:"autoruns,omitempty"`
	Actions   []models.ActionLogEntry                  `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// NewScanReport starts a report for mode
func NewScanReport(version, mode string, paths ...string) *ScanReport {
	host, _ := os.Hostname()
	return &ScanReport{
		ID:        uuid.New(),
		Version:   version,
		Host:      host,
		Mode:      mode,
		Paths:     paths,
		StartTime: time.Now(),
	}
}

// Finish stamps the end time
func (r *ScanReport) Finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// ThreatCount is the number of flagged files plus flagged processes
func (r *ScanReport) ThreatCount() int {
	return len(r.Results) + len(r.Processes)
}

// CountBySeverity counts flagged files by their highest severity, and
// flagged processes by theirs
func (r *ScanReport) CountBySeverity() map[models.Severity]int {
	counts := make(map[models.Severity]int)
	for _, res := range r.Results {
		counts[res.MaxSeverity]++
	}
	for _, p := range r.Processes {
		counts[p.Severity]++
	}
	return counts
}

// UnverifiedAutoruns returns the entries whose executable is not signed and
// verified
func (r *ScanReport) UnverifiedAutoruns() []models.AutorunEntry {
	var out []models.AutorunEntry
	for _, e := range r.Autoruns {
		if !e.Verdict.Verified {
			out = append(out, e)
		}
	}
	return out
}

// NonCompliantCount is the number of posture checks needing remediation
func (r *ScanReport) NonCompliantCount() int {
	n := 0
	for _, c := range r.Posture {
		if c.NeedsRemediation {
			n++
		}
	}
	return n
}

// severities lists severities from most to least severe
var severities = []models.Severity{
	models.SeverityCritical,
	models.SeverityHigh,
	models.SeverityMedium,
	models.SeverityLow,
}

// checkOrder fixes the display order of posture checks
var checkOrder = []models.CheckName{
	models.CheckFirewall,
	models.CheckUAC,
	models.CheckRealTimeProtection,
}

// sortedChecks returns the posture checks in display order, followed by any
// unknown checks
func sortedChecks(posture map[models.CheckName]models.PostureCheck) []models.PostureCheck {
	var out []models.PostureCheck
	seen := make(map[models.CheckName]bool)
	for _, name := range checkOrder {
		if c, ok := posture[name]; ok {
			out = append(out, c)
			seen[name] = true
		}
	}
	for name, c := range posture {
		if !seen[name] {
			out = append(out, c)
		}
	}
	return out
}

func (r *ScanReport) isFileScan() bool {
	switch r.Mode {
	case ModeQuick, ModeFull, ModeCustom, ModeWatch:
		return true
	}
	return false
}
