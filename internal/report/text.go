package report

import (
	"fmt"
	"strings"
)

// generateText renders a plain text report
func generateText(r *ScanReport) []byte {
	var sb strings.Builder
	rule := strings.Repeat("-", 79) + "\n"
	banner := strings.Repeat("=", 79) + "\n"

	// Header
	sb.WriteString(banner)
	sb.WriteString(fmt.Sprintf("  WINSENTRY REPORT v%s\n", r.Version))
	sb.WriteString(banner + "\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(rule)
	sb.WriteString(fmt.Sprintf("Report ID:        %s\n", r.ID))
	sb.WriteString(fmt.Sprintf("Host:             %s\n", r.Host))
	sb.WriteString(fmt.Sprintf("Mode:             %s\n", r.Mode))
	if len(r.Paths) > 0 {
		sb.WriteString(fmt.Sprintf("Paths:            %s\n", strings.Join(r.Paths, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", r.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", r.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(r.Duration)))
	sb.WriteString(fmt.Sprintf("THREATS FOUND:    %d\n", r.ThreatCount()))
	sb.WriteString("\n")

	if r.ThreatCount() > 0 {
		sb.WriteString("THREATS BY SEVERITY\n")
		sb.WriteString(rule)
		counts := r.CountBySeverity()
		for _, sev := range severities {
			if counts[sev] > 0 {
				sb.WriteString(fmt.Sprintf("  %-10s: %d\n", strings.ToUpper(sev.String()), counts[sev]))
			}
		}
		sb.WriteString("\n")
	} else if r.isFileScan() {
		sb.WriteString("No threats detected.\n\n")
	}

	// Detailed findings
	if len(r.Results) > 0 {
		sb.WriteString("DETAILED FINDINGS\n")
		sb.WriteString(banner + "\n")
		for i, res := range r.Results {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, res.Name))
			sb.WriteString(rule)
			sb.WriteString(fmt.Sprintf("File:        %s\n", res.Path))
			sb.WriteString(fmt.Sprintf("Size:        %d\n", res.Size))
			sb.WriteString(fmt.Sprintf("Severity:    %s\n", strings.ToUpper(res.MaxSeverity.String())))
			for _, f := range res.Findings {
				sb.WriteString(fmt.Sprintf("  - %-8s %-18s %s\n", f.Severity, f.Rule, f.Description))
			}
			sb.WriteString("\n")
		}
	}

	if len(r.Processes) > 0 {
		sb.WriteString("SUSPICIOUS PROCESSES\n")
		sb.WriteString(banner + "\n")
		for _, p := range r.Processes {
			sb.WriteString(fmt.Sprintf("PID %d  %s\n", p.PID, p.Name))
			sb.WriteString(fmt.Sprintf("Path:        %s\n", p.Path))
			sb.WriteString(fmt.Sprintf("Severity:    %s\n", strings.ToUpper(p.Severity.String())))
			sb.WriteString(fmt.Sprintf("Reason:      %s\n\n", p.Reason))
		}
	}

	if len(r.Posture) > 0 {
		sb.WriteString("SECURITY POSTURE\n")
		sb.WriteString(rule)
		for _, c := range sortedChecks(r.Posture) {
			sb.WriteString(fmt.Sprintf("%-20s %-14s %-14s recommended: %s\n", c.Name, c.State, c.Current, c.Recommended))
			if c.Detail != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", c.Detail))
			}
		}
		sb.WriteString("\n")
	}

	if len(r.Autoruns) > 0 {
		sb.WriteString("AUTORUN ENTRIES\n")
		sb.WriteString(rule)
		for _, e := range r.Autoruns {
			sb.WriteString(fmt.Sprintf("%s [%s/%s]\n", e.Name, e.Source, e.Scope))
			sb.WriteString(fmt.Sprintf("Location:    %s\n", e.Location))
			sb.WriteString(fmt.Sprintf("Command:     %s\n", e.Command))
			sb.WriteString(fmt.Sprintf("Executable:  %s\n", e.ExecutablePath))
			sb.WriteString(fmt.Sprintf("Verified:    %t (%s, %s)\n\n", e.Verdict.Verified, e.Verdict.Publisher, e.Verdict.Method))
		}
	}

	if len(r.Actions) > 0 {
		sb.WriteString("REMEDIATION LOG\n")
		sb.WriteString(rule)
		for _, e := range r.Actions {
			sb.WriteString(fmt.Sprintf("%s  %s\n", e.Time.Format("15:04:05"), e.String()))
		}
		sb.WriteString("\n")
	}

	// Footer
	sb.WriteString(banner)
	sb.WriteString("End of Report\n")
	sb.WriteString(banner)

	return []byte(sb.String())
}
