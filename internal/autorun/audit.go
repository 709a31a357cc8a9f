package autorun

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

// Hive names a registry root
type Hive string

const (
	HiveLocalMachine Hive = "HKLM"
	HiveCurrentUser  Hive = "HKCU"
)

// RunKey is a registry key whose values are started at logon
type RunKey struct {
	Hive Hive
	Path string
}

// String returns the key in HIVE\path form
func (k RunKey) String() string {
	return string(k.Hive) + `\` + k.Path
}

// Scope returns the autorun scope of the key
func (k RunKey) Scope() models.AutorunScope {
	if k.Hive == HiveCurrentUser {
		return models.ScopeCurrentUser
	}
	return models.ScopeMachineWide
}

// RunKeys are the registry locations audited
var RunKeys = []RunKey{
	{HiveLocalMachine, `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`},
	{HiveLocalMachine, `SOFTWARE\Microsoft\Windows\CurrentVersion\RunOnce`},
	{HiveLocalMachine, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Run`},
	{HiveCurrentUser, `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`},
	{HiveCurrentUser, `SOFTWARE\Microsoft\Windows\CurrentVersion\RunOnce`},
}

// RunValue is one named command under a run key
type RunValue struct {
	Name    string
	Command string
}

// RegistryReader lists the values of a run key. A missing key is reported
// with an error matching models.ErrNotFound.
type RegistryReader interface {
	RunValues(key RunKey) ([]RunValue, error)
}

// StartupFolders returns the per-user and all-users startup directories
func StartupFolders() []string {
	var dirs []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup"))
	}
	if programData := os.Getenv("ProgramData"); programData != "" {
		dirs = append(dirs, filepath.Join(programData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup"))
	}
	return dirs
}

// Auditor enumerates startup entries and attaches signature verdicts
type Auditor struct {
	registry    RegistryReader
	runKeys     []RunKey
	startupDirs []string
	checker     SignatureChecker
	exists      func(string) bool
	logger      *zap.Logger
}

// NewAuditor creates an auditor over the given sources
func NewAuditor(reg RegistryReader, startupDirs []string, checker SignatureChecker, logger *zap.Logger) *Auditor {
	return &Auditor{
		registry:    reg,
		runKeys:     RunKeys,
		startupDirs: startupDirs,
		checker:     checker,
		exists:      filesystem.Exists,
		logger:      logger,
	}
}

// NewSystemAuditor creates an auditor for the host registry and startup
// folders
func NewSystemAuditor(sigcheckPath string, runner CommandRunner, logger *zap.Logger) *Auditor {
	return NewAuditor(SystemRegistry{}, StartupFolders(), NewVerifier(sigcheckPath, runner, logger), logger)
}

// Audit lists every registry run value and startup folder item. Sources
// that do not exist are skipped.
func (a *Auditor) Audit(ctx context.Context) []models.AutorunEntry {
	var entries []models.AutorunEntry
	verdicts := make(map[string]models.SignatureVerdict)

	verify := func(path string) models.SignatureVerdict {
		key := strings.ToLower(path)
		if v, ok := verdicts[key]; ok {
			return v
		}
		v := a.checker.Verify(ctx, path)
		verdicts[key] = v
		return v
	}

	for _, key := range a.runKeys {
		values, err := a.registry.RunValues(key)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				a.logger.Debug("Cannot read run key", zap.String("key", key.String()), zap.Error(err))
			}
			continue
		}

		for _, val := range values {
			exe := ResolveExecutablePath(val.Command, a.exists)
			entries = append(entries, models.AutorunEntry{
				Name:           val.Name,
				Source:         models.SourceRegistry,
				Scope:          key.Scope(),
				Location:       key.String(),
				Command:        val.Command,
				ExecutablePath: exe,
				Verdict:        verify(exe),
			})
		}
	}

	for _, dir := range a.startupDirs {
		items, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				a.logger.Debug("Cannot read startup folder", zap.String("dir", dir), zap.Error(err))
			}
			continue
		}

		for _, item := range items {
			if item.IsDir() || strings.EqualFold(item.Name(), "desktop.ini") {
				continue
			}
			path := filepath.Join(dir, item.Name())
			entries = append(entries, models.AutorunEntry{
				Name:           item.Name(),
				Source:         models.SourceStartupFolder,
				Scope:          models.ScopeFileSystem,
				Location:       dir,
				Command:        path,
				ExecutablePath: path,
				Verdict:        verify(path),
			})
		}
	}

	return entries
}
