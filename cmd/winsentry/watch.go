package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/IvanShishkin/winsentry/internal/schedule"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd creates the watch command
func watchCmd() *cobra.Command {
	var (
		flags    scanFlags
		interval string
	)

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Scan periodically, reloading signatures when they change",
		Long: `Run a scan now and then on a schedule (default "@every 6h") until interrupted.
Without paths the quick scan locations are used. Edits to the signature
database are picked up by the next scan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}
			if interval != "" {
				cfg.WatchSchedule = interval
			}

			loader := signatures.NewLoader(cfg.SignaturesPath, logger)
			watcher, err := signatures.NewWatcher(loader, logger, func(store *signatures.Store) {
				gray.Printf("  %s\n", reloadSummary(store))
			})
			if err != nil {
				return fail(err)
			}
			defer watcher.Close()

			generator := report.NewGenerator(cfg, logger)
			runner := schedule.NewRunner(cfg, logger, watcher, args, version, func(rep *report.ScanReport) {
				path, err := generator.Generate(rep)
				if err != nil {
					logger.Error("Failed to write report", zap.Error(err))
					return
				}
				if path != "" {
					gray.Printf("  Report: %s\n", path)
				}
			})

			printBanner()
			if err := runner.Start(); err != nil {
				return fail(err)
			}
			defer runner.Stop()

			gray.Printf("  Watching on schedule %q, press Ctrl+C to stop\n\n", cfg.WatchSchedule)

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&interval, "schedule", "", `Cron schedule, e.g. "@every 1h" (default from config)`)
	return cmd
}

// reloadSummary describes a freshly loaded signature database for the console
func reloadSummary(store *signatures.Store) string {
	hashes, patterns, names := store.Stats()
	return fmt.Sprintf("Signatures reloaded: %d hashes, %d patterns, %d names", hashes, patterns, names)
}
