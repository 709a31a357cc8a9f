package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/internal/core"
	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/fatih/color"
	goerrors "github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

var (
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	gray   = color.New(color.FgHiBlack)
	cyan   = color.New(color.FgCyan, color.Bold)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "winsentry",
		Short: "Winsentry - Windows host security auditor",
		Long: `Scans files and running processes for known threats, audits autorun entries,
and checks or hardens the host security posture.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			printBanner()
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(processesCmd())
	rootCmd.AddCommand(killCmd())
	rootCmd.AddCommand(postureCmd())
	rootCmd.AddCommand(hardenCmd())
	rootCmd.AddCommand(autorunsCmd())
	rootCmd.AddCommand(quarantineCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(signaturesCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// initLogger builds a development logger with --verbose, otherwise a
// silent JSON logger that only reports errors
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// fail attaches a stack trace to err for --verbose output
func fail(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

func printError(err error) {
	red.Fprintf(os.Stderr, "\n  ✗ %v\n\n", err)

	var stackErr *goerrors.Error
	if verbose && errors.As(err, &stackErr) {
		fmt.Fprintln(os.Stderr, stackErr.ErrorStack())
	}
}

func printBanner() {
	fmt.Println()
	cyan.Println("  WINSENTRY")
	gray.Printf("  Host Security Auditor v%s\n", version)
	fmt.Println()
}

// warnIfNotWindows notes that host checks only work on Windows
func warnIfNotWindows(what string) {
	if runtime.GOOS != "windows" {
		yellow.Fprintf(os.Stderr, "  ⚠ %s is only meaningful on Windows, results will be Indeterminate or empty\n\n", what)
	}
}

// loadConfig loads the configuration file and environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fail(fmt.Errorf("failed to load config: %w", err))
	}
	return cfg, nil
}

// newScanner loads the signature database and creates a scanner over it
func newScanner(cfg *config.Config) *core.Scanner {
	store := signatures.NewLoader(cfg.SignaturesPath, logger).Load()
	return core.NewScanner(cfg, logger, store)
}

// emit renders rep to the console or the configured report file
func emit(cfg *config.Config, rep *report.ScanReport) error {
	rep.Finish()
	path, err := report.NewGenerator(cfg, logger).Generate(rep)
	if err != nil {
		return fail(err)
	}
	if path != "" {
		fmt.Printf("  %s %s\n\n", gray.Sprint("Report:"), path)
	}
	return nil
}
