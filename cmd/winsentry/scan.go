package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/internal/core"
	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanFlags holds overrides shared by the scanning commands
type scanFlags struct {
	maxSize      string
	extensions   []string
	reportFormat string
	outputFile   string
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.maxSize, "max-size", "", "Maximum file size to scan, e.g. 100M (default from config)")
	cmd.Flags().StringSliceVar(&f.extensions, "extensions", nil, "File extensions to scan (comma-separated)")
	cmd.Flags().StringVarP(&f.reportFormat, "report", "r", "", "Report format: json, yaml, text (default: console output)")
	cmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "Output file path")
}

// apply overrides config with CLI flags
func (f *scanFlags) apply(cfg *config.Config) error {
	if err := validateFormat(f.reportFormat); err != nil {
		return err
	}
	if f.maxSize != "" {
		cfg.MaxSize = f.maxSize
	}
	if len(f.extensions) > 0 {
		cfg.Extensions = f.extensions
	}
	if f.reportFormat != "" {
		cfg.ReportFormat = f.reportFormat
	}
	if f.outputFile != "" {
		cfg.OutputFile = f.outputFile
	}
	return nil
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		flags      scanFlags
		quick      bool
		full       bool
		processes  bool
		quarantine bool
	)

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files for known threats",
		Long: `Scan files and directories for known malware hashes, suspicious file names,
system binaries in unexpected locations and hidden executables.

With --quick the common drop locations (%TEMP%, %APPDATA%, Downloads) are scanned,
with --full the whole system drive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := scanMode(args, quick, full)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			scanner := newScanner(cfg)
			scanner.SetProgressCallback(progressPrinter())

			paths := scanTargets(cfg, mode, args)
			if len(paths) == 0 {
				return fmt.Errorf("no scan locations available")
			}

			printBanner()
			fmt.Printf("  %s %s\n", gray.Sprint("Scanning:"), strings.Join(paths, ", "))

			rep := report.NewScanReport(version, mode, paths...)
			switch mode {
			case report.ModeQuick:
				rep.Results = scanner.QuickScan()
			case report.ModeFull:
				rep.Results = scanner.FullScan()
			default:
				rep.Results = scanner.ScanPaths(paths, nil)
			}
			clearProgress()

			if processes {
				rep.Processes = scanner.ScanProcesses(context.Background())
			}

			if quarantine {
				quarantineResults(scanner, rep.Results)
			}

			return emit(cfg, rep)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&quick, "quick", false, "Scan common malware drop locations")
	cmd.Flags().BoolVar(&full, "full", false, "Scan the whole system drive")
	cmd.Flags().BoolVar(&processes, "processes", false, "Also scan running processes")
	cmd.Flags().BoolVar(&quarantine, "quarantine", false, "Move every flagged file into quarantine")

	return cmd
}

// scanMode picks the report mode from the arguments and flags
func scanMode(args []string, quick, full bool) (string, error) {
	switch {
	case quick && full:
		return "", fmt.Errorf("--quick and --full are mutually exclusive")
	case (quick || full) && len(args) > 0:
		return "", fmt.Errorf("paths cannot be combined with --quick or --full")
	case quick:
		return report.ModeQuick, nil
	case full:
		return report.ModeFull, nil
	case len(args) == 0:
		return "", fmt.Errorf("give at least one path, or use --quick or --full")
	default:
		return report.ModeCustom, nil
	}
}

// scanTargets lists the paths a scan in mode will cover
func scanTargets(cfg *config.Config, mode string, args []string) []string {
	switch mode {
	case report.ModeQuick:
		return cfg.ScanLocations()
	case report.ModeFull:
		return []string{core.SystemRoot()}
	default:
		return args
	}
}

// validateFormat validates the --report value
func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "json", "yaml", "yml", "text", "txt":
		return nil
	}
	return fmt.Errorf("--report must be one of: json, yaml, text (got: %s)", format)
}

// progressPrinter prints the directory being scanned on a single line
func progressPrinter() core.ProgressCallback {
	return func(phase string, current, total int, message string) {
		if phase != core.PhaseDirectory {
			return
		}
		fmt.Fprintf(os.Stderr, "\r\033[K  %s %s", gray.Sprintf("[%d]", current), truncate(message, 70))
	}
}

func clearProgress() {
	fmt.Fprint(os.Stderr, "\r\033[K")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

func quarantineResults(scanner *core.Scanner, results []*models.ScanResult) {
	for _, res := range results {
		dst, err := scanner.Quarantine(res.Path)
		switch {
		case err == nil:
			green.Printf("  ✓ Quarantined %s -> %s\n", res.Path, dst)
		case errors.Is(err, models.ErrProtectedTarget):
			yellow.Printf("  ⚠ Refused to quarantine protected path %s\n", res.Path)
		default:
			red.Printf("  ✗ Failed to quarantine %s: %v\n", res.Path, err)
			logger.Debug("Quarantine failed", zap.String("path", res.Path), zap.Error(err))
		}
	}
	fmt.Println()
}
