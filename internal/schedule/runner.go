package schedule

import (
	"fmt"
	"sync/atomic"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/internal/core"
	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/robfig/cron"
	"go.uber.org/zap"
)

// StoreSource hands out the signature store to scan with.
// signatures.Watcher satisfies it.
type StoreSource interface {
	Current() *signatures.Store
}

// Runner performs periodic scans. Each run takes a fresh store snapshot and
// a fresh scanner, so a signature reload between runs is picked up and a
// reload during a run is not.
type Runner struct {
	config   *config.Config
	logger   *zap.Logger
	source   StoreSource
	paths    []string
	version  string
	onReport func(*report.ScanReport)

	cron    *cron.Cron
	running atomic.Bool
}

// NewRunner creates a runner scanning paths, or the quick scan locations
// when paths is empty. onReport receives every finished report.
func NewRunner(cfg *config.Config, logger *zap.Logger, source StoreSource, paths []string, version string, onReport func(*report.ScanReport)) *Runner {
	return &Runner{
		config:   cfg,
		logger:   logger,
		source:   source,
		paths:    paths,
		version:  version,
		onReport: onReport,
	}
}

// RunOnce performs a single scan. It returns false without scanning when a
// previous run is still in progress.
func (r *Runner) RunOnce() bool {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("Previous scheduled scan still running, skipping")
		return false
	}
	defer r.running.Store(false)

	store := r.source.Current()
	scanner := core.NewScanner(r.config, r.logger, store)

	paths := r.paths
	if len(paths) == 0 {
		paths = r.config.ScanLocations()
	}

	rep := report.NewScanReport(r.version, report.ModeWatch, paths...)
	rep.Results = scanner.ScanPaths(paths, nil)
	rep.Finish()

	r.logger.Info("Scheduled scan finished",
		zap.String("id", rep.ID.String()),
		zap.Int("threats_found", len(rep.Results)))

	if r.onReport != nil {
		r.onReport(rep)
	}
	return true
}

// Start runs one scan immediately and then on the configured schedule
func (r *Runner) Start() error {
	spec := r.config.WatchSchedule
	if spec == "" {
		spec = "@every 6h"
	}

	c := cron.New()
	if err := c.AddFunc(spec, func() { r.RunOnce() }); err != nil {
		return fmt.Errorf("invalid watch schedule %q: %w", spec, err)
	}

	// Scan once before scheduling
	r.RunOnce()

	c.Start()
	r.cron = c
	r.logger.Info("Watch schedule started", zap.String("schedule", spec))
	return nil
}

// Stop halts the schedule. A scan already running completes.
func (r *Runner) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
