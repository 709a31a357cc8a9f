package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	bold    = color.New(color.Bold)
	gray    = color.New(color.FgHiBlack)
	red     = color.New(color.FgRed, color.Bold)
	orange  = color.New(color.FgHiRed)
	yellow  = color.New(color.FgYellow)
	green   = color.New(color.FgGreen, color.Bold)
	cyan    = color.New(color.FgCyan, color.Bold)
	divider = strings.Repeat("─", 63)
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator renders reports to the console or to a file
type Generator struct {
	config *config.Config
	logger *zap.Logger
	out    io.Writer
}

// NewGenerator creates a new report generator writing console output to stdout
func NewGenerator(cfg *config.Config, logger *zap.Logger) *Generator {
	return &Generator{
		config: cfg,
		logger: logger,
		out:    color.Output,
	}
}

// SetOutput redirects console output
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// Generate prints the report to the console when no format is configured,
// otherwise writes it to the configured file and returns its absolute path
func (g *Generator) Generate(report *ScanReport) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	if format == "" {
		g.printConsole(report)
		return "", nil
	}

	ext, err := extension(format)
	if err != nil {
		return "", err
	}

	// Generate default filename if not specified
	if outputFile == "" {
		timestamp := report.StartTime.Format("20060102-150405")
		outputFile = fmt.Sprintf("WINSENTRY-REPORT-%s.%s", timestamp, ext)
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var data []byte
	switch ext {
	case "json":
		data, err = generateJSON(report)
	case "yaml":
		data, err = generateYAML(report)
	case "txt":
		data = generateText(report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	// Get absolute path
	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

func extension(format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	case "txt", "text":
		return "txt", nil
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// printConsole prints every non-empty section with colors
func (g *Generator) printConsole(r *ScanReport) {
	w := g.out
	fmt.Fprintln(w)

	cyan.Fprintf(w, "WINSENTRY %s\n", strings.ToUpper(r.Mode))
	fmt.Fprintln(w)
	if len(r.Paths) > 0 {
		fmt.Fprintf(w, "  %s  %s\n", gray.Sprint("Paths:    "), strings.Join(r.Paths, ", "))
	}
	fmt.Fprintf(w, "  %s  %s\n", gray.Sprint("Duration: "), FormatDuration(r.Duration))
	fmt.Fprintln(w)

	if r.isFileScan() || len(r.Results) > 0 {
		g.printResults(r)
	}
	if r.Mode == ModeProcesses || len(r.Processes) > 0 {
		g.printProcesses(r)
	}
	if len(r.Posture) > 0 {
		g.printPosture(r)
	}
	if r.Mode == ModeAutoruns || len(r.Autoruns) > 0 {
		g.printAutoruns(r)
	}
	if len(r.Actions) > 0 {
		g.printActions(r)
	}
}

func (g *Generator) printResults(r *ScanReport) {
	w := g.out
	if len(r.Results) == 0 {
		green.Fprintln(w, "  ✓ No threats detected")
		fmt.Fprintln(w)
		return
	}

	red.Fprintf(w, "  ⚠ THREATS FOUND: %d\n", len(r.Results))
	fmt.Fprintln(w)
	gray.Fprintln(w, divider)

	for i, res := range r.Results {
		fmt.Fprintf(w, "\n  %s %s\n", bold.Sprintf("[%d]", i+1), bold.Sprint(res.Path))
		fmt.Fprintf(w, "      %s %s\n", gray.Sprint("Severity:"), severityColor(res.MaxSeverity).Sprint(strings.ToUpper(res.MaxSeverity.String())))
		fmt.Fprintf(w, "      %s %d bytes\n", gray.Sprint("Size:    "), res.Size)
		for _, f := range res.Findings {
			fmt.Fprintf(w, "      %s %s %s\n",
				severityColor(f.Severity).Sprintf("%-8s", f.Severity),
				gray.Sprintf("%-18s", f.Rule),
				f.Description)
		}
	}

	fmt.Fprintln(w)
	gray.Fprintln(w, divider)
	fmt.Fprintln(w)
}

func (g *Generator) printProcesses(r *ScanReport) {
	w := g.out
	if len(r.Processes) == 0 {
		green.Fprintln(w, "  ✓ No suspicious processes")
		fmt.Fprintln(w)
		return
	}

	red.Fprintf(w, "  ⚠ SUSPICIOUS PROCESSES: %d\n", len(r.Processes))
	fmt.Fprintln(w)
	for _, p := range r.Processes {
		fmt.Fprintf(w, "  %s %s %s\n", severityColor(p.Severity).Sprintf("%-8s", p.Severity), bold.Sprintf("%-8d", p.PID), p.Name)
		fmt.Fprintf(w, "      %s %s\n", gray.Sprint("Path:  "), p.Path)
		fmt.Fprintf(w, "      %s %s\n", gray.Sprint("Reason:"), p.Reason)
	}
	fmt.Fprintln(w)
}

func (g *Generator) printPosture(r *ScanReport) {
	w := g.out
	bold.Fprintln(w, "  SECURITY POSTURE")
	fmt.Fprintln(w)
	for _, c := range sortedChecks(r.Posture) {
		fmt.Fprintf(w, "  %-20s %s %s\n",
			c.Name,
			stateColor(c.State).Sprintf("%-14s", c.Current),
			gray.Sprintf("(recommended: %s)", c.Recommended))
		if c.Detail != "" {
			fmt.Fprintf(w, "      %s\n", gray.Sprint(c.Detail))
		}
	}
	fmt.Fprintln(w)

	if n := r.NonCompliantCount(); n > 0 {
		yellow.Fprintf(w, "  %d check(s) need attention\n", n)
	} else {
		green.Fprintln(w, "  ✓ All checks compliant")
	}
	fmt.Fprintln(w)
}

func (g *Generator) printAutoruns(r *ScanReport) {
	w := g.out
	bold.Fprintf(w, "  AUTORUN ENTRIES: %d\n", len(r.Autoruns))
	fmt.Fprintln(w)
	for _, e := range r.Autoruns {
		verdict := green.Sprint("verified")
		if !e.Verdict.Verified {
			verdict = orange.Sprint("unverified")
		}
		fmt.Fprintf(w, "  %s %s\n", bold.Sprint(e.Name), gray.Sprintf("[%s/%s]", e.Source, e.Scope))
		fmt.Fprintf(w, "      %s %s\n", gray.Sprint("Location: "), e.Location)
		fmt.Fprintf(w, "      %s %s\n", gray.Sprint("Command:  "), oneLine(e.Command, 120))
		fmt.Fprintf(w, "      %s %s (%s)\n", gray.Sprint("Signature:"), verdict, e.Verdict.Publisher)
	}
	fmt.Fprintln(w)

	if n := len(r.UnverifiedAutoruns()); n > 0 {
		yellow.Fprintf(w, "  %d entr(ies) without a verified signature\n", n)
		fmt.Fprintln(w)
	}
}

func (g *Generator) printActions(r *ScanReport) {
	w := g.out
	bold.Fprintln(w, "  REMEDIATION")
	fmt.Fprintln(w)
	for _, e := range r.Actions {
		fmt.Fprintf(w, "  %s\n", actionColor(e.Status).Sprint(e.String()))
	}
	fmt.Fprintln(w)
}

// severityColor returns the color for a severity level
func severityColor(severity models.Severity) *color.Color {
	switch severity {
	case models.SeverityCritical:
		return red
	case models.SeverityHigh:
		return orange
	case models.SeverityMedium:
		return yellow
	default:
		return green
	}
}

func stateColor(state models.PostureState) *color.Color {
	switch state {
	case models.StateCompliant:
		return green
	case models.StateNonCompliant:
		return red
	default:
		return yellow
	}
}

func actionColor(status models.ActionStatus) *color.Color {
	switch status {
	case models.ActionApplied:
		return green
	case models.ActionFailed:
		return red
	case models.ActionDryRun, models.ActionSkipped:
		return yellow
	default:
		return cyan
	}
}

// oneLine collapses whitespace and truncates s for console output
func oneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
