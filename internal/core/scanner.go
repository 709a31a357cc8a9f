package core

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/internal/detectors"
	hashdetector "github.com/IvanShishkin/winsentry/internal/detectors/hash"
	"github.com/IvanShishkin/winsentry/internal/detectors/hidden"
	"github.com/IvanShishkin/winsentry/internal/detectors/location"
	"github.com/IvanShishkin/winsentry/internal/detectors/pattern"
	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/internal/process"
	"github.com/IvanShishkin/winsentry/internal/quarantine"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

// Progress phases
const (
	PhaseDirectory = "directory"
	PhaseHashing   = "hashing"
)

// ProgressCallback is called to report scan progress. It runs on the
// scanning goroutine and must return quickly.
type ProgressCallback func(phase string, current, total int, message string)

// Scanner is the threat detection engine. It holds no per-scan state, so
// one Scanner may serve repeated or concurrent scans.
type Scanner struct {
	config           *config.Config
	logger           *zap.Logger
	store            *signatures.Store
	detectors        []detectors.Detector
	processes        process.Table
	quarantine       *quarantine.Store
	maxSize          int64
	progressCallback ProgressCallback
}

// NewScanner creates a scanner over a signature store snapshot and
// registers the file rules
func NewScanner(cfg *config.Config, logger *zap.Logger, store *signatures.Store) *Scanner {
	s := &Scanner{
		config:     cfg,
		logger:     logger,
		store:      store,
		processes:  process.NewSystemTable(),
		quarantine: quarantine.NewStore(cfg.QuarantineDir, cfg.ProtectedPaths, logger),
		maxSize:    filesystem.ParseSize(cfg.MaxSize),
	}

	s.RegisterDetector(pattern.NewDetector())
	s.RegisterDetector(location.NewDetector(cfg.SystemDir))
	s.RegisterDetector(hashdetector.NewDetector(cfg.HashAlgorithm, func(path string) {
		s.reportProgress(PhaseHashing, 0, 0, path)
	}))
	s.RegisterDetector(hidden.NewDetector())

	return s
}

// RegisterDetector registers a new detector, keeping priority order
func (s *Scanner) RegisterDetector(d detectors.Detector) {
	s.detectors = append(s.detectors, d)
	slices.SortStableFunc(s.detectors, func(a, b detectors.Detector) int {
		return b.Priority() - a.Priority()
	})
	s.logger.Debug("Registered detector",
		zap.String("name", d.Name()),
		zap.Int("priority", d.Priority()))
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// SetProcessTable replaces the process table used by ScanProcesses and
// TerminateProcess
func (s *Scanner) SetProcessTable(t process.Table) {
	s.processes = t
}

// reportProgress calls the progress callback if set
func (s *Scanner) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// ScanFile evaluates one file against every rule. It returns nil when no
// rule matched, when the file exceeds the size limit or when it cannot be
// read.
func (s *Scanner) ScanFile(path string) *models.ScanResult {
	return s.scanFile(context.Background(), path)
}

func (s *Scanner) scanFile(ctx context.Context, path string) *models.ScanResult {
	file, err := filesystem.Stat(path)
	if err != nil {
		s.logger.Debug("Cannot stat file, skipping", zap.String("path", path), zap.Error(err))
		return nil
	}
	if !file.Regular {
		s.logger.Debug("Not a regular file, skipping", zap.String("path", path))
		return nil
	}

	// Check file size
	if s.maxSize > 0 && file.Size > s.maxSize {
		s.logger.Debug("File too large, skipping",
			zap.String("path", path),
			zap.Int64("size", file.Size))
		return nil
	}

	var findings []models.Finding
	for _, detector := range s.detectors {
		if !detector.IsEnabled() || !detectors.Supports(detector, file.Extension) {
			continue
		}

		found, err := detector.Detect(ctx, &file, s.store)
		if err != nil {
			s.logger.Debug("Detector failed",
				zap.String("detector", detector.Name()),
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		findings = append(findings, found...)
	}

	return models.NewScanResult(path, file.Size, findings)
}

// ScanDirectory scans every file under root whose extension is in exts, or
// in the configured extensions when exts is empty. The returned sequence
// is lazy: files are scanned as it is ranged over, and ranging again
// rescans the tree. Only files with findings are yielded.
func (s *Scanner) ScanDirectory(root string, exts []string) iter.Seq[*models.ScanResult] {
	if len(exts) == 0 {
		exts = s.config.Extensions
	}
	if len(exts) == 0 {
		exts = config.DefaultExtensions
	}

	return func(yield func(*models.ScanResult) bool) {
		dirs := 0
		walker := filesystem.NewWalker(s.logger, func(dir string) {
			dirs++
			s.reportProgress(PhaseDirectory, dirs, 0, dir)
		})

		for path := range walker.Files(root, exts) {
			result := s.scanFile(context.Background(), path)
			if result == nil {
				continue
			}
			if !yield(result) {
				return
			}
		}
	}
}

// ScanPaths scans each path, recursing into directories, and collects the
// results
func (s *Scanner) ScanPaths(paths []string, exts []string) []*models.ScanResult {
	start := time.Now()
	s.logger.Info("Starting scan", zap.Strings("paths", paths))

	var results []*models.ScanResult
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable scan path", zap.String("path", path), zap.Error(err))
			continue
		}

		if info.IsDir() {
			results = slices.AppendSeq(results, s.ScanDirectory(path, exts))
			continue
		}

		if result := s.ScanFile(path); result != nil {
			results = append(results, result)
		}
	}

	s.logger.Info("Scan completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("threats_found", len(results)))
	return results
}

// QuickScan scans the common malware drop locations
func (s *Scanner) QuickScan() []*models.ScanResult {
	return s.ScanPaths(s.config.ScanLocations(), nil)
}

// FullScan scans the system drive
func (s *Scanner) FullScan() []*models.ScanResult {
	return s.ScanPaths([]string{SystemRoot()}, nil)
}

// SystemRoot returns the root of the system drive
func SystemRoot() string {
	if drive := os.Getenv("SystemDrive"); drive != "" {
		return drive + string(filepath.Separator)
	}
	return string(filepath.Separator)
}

// ScanProcesses reports running processes that carry a reserved system
// name but run from outside the system directory. Processes that exit or
// deny access while being inspected are left out.
func (s *Scanner) ScanProcesses(ctx context.Context) []models.ProcessFinding {
	procs, err := s.processes.List(ctx)
	if err != nil {
		s.logger.Warn("Failed to list processes", zap.Error(err))
		return nil
	}

	var findings []models.ProcessFinding
	for _, p := range procs {
		if !s.store.IsReservedName(p.Name) {
			continue
		}

		exe, err := s.processes.ExePath(ctx, p.PID)
		if err != nil || exe == "" {
			s.logger.Debug("Cannot resolve process image, skipping",
				zap.Int32("pid", p.PID),
				zap.String("name", p.Name),
				zap.Error(err))
			continue
		}

		if filesystem.HasPathPrefix(exe, s.config.SystemDir) {
			continue
		}

		findings = append(findings, models.ProcessFinding{
			PID:      p.PID,
			Name:     p.Name,
			Path:     exe,
			Reason:   fmt.Sprintf("System process name running outside %s", s.config.SystemDir),
			Severity: models.SeverityHigh,
		})
	}

	return findings
}

// Quarantine moves a flagged file into the quarantine directory
func (s *Scanner) Quarantine(path string) (string, error) {
	return s.quarantine.Quarantine(path)
}

// Remove deletes a flagged file. Protected system paths are refused before
// anything is touched.
func (s *Scanner) Remove(path string) error {
	if filesystem.IsProtected(path, s.config.ProtectedPaths) {
		return models.NewOpError("remove", path, models.ErrProtectedTarget, nil)
	}

	if err := os.Remove(path); err != nil {
		return filesystem.ClassifyError("remove", path, err)
	}

	s.logger.Info("File removed", zap.String("path", path))
	return nil
}

// TerminateProcess kills pid and waits up to the configured timeout for it
// to exit
func (s *Scanner) TerminateProcess(ctx context.Context, pid int32) error {
	timeout := s.config.TerminateTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	if err := process.TerminateAndWait(ctx, s.processes, pid, timeout, 100*time.Millisecond); err != nil {
		return err
	}

	s.logger.Info("Process terminated", zap.Int32("pid", pid))
	return nil
}
