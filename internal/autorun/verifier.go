package autorun

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/hashicorp/errwrap"
	"go.uber.org/zap"
)

// CommandRunner runs an external command and returns its output
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// SignatureChecker produces a code-signing verdict for a file
type SignatureChecker interface {
	Verify(ctx context.Context, path string) models.SignatureVerdict
}

var errNoMarker = errors.New("no verification marker in output")

var (
	verifiedRe  = regexp.MustCompile(`(?im)^\s*Verified:\s*Signed\s*$`)
	markerRe    = regexp.MustCompile(`(?im)^\s*Verified:`)
	publisherRe = regexp.MustCompile(`(?im)^\s*Publisher:\s*(.+?)\s*$`)
)

// sigcheckNames are tried in order in each search directory
var sigcheckNames = []string{"sigcheck64.exe", "sigcheck.exe", "sigcheck64", "sigcheck"}

// Verifier checks signatures with the Sysinternals sigcheck tool. When the
// tool is missing or fails, every verdict degrades to Unverifiable.
type Verifier struct {
	configured string
	runner     CommandRunner
	logger     *zap.Logger

	once     sync.Once
	toolPath string
	toolErr  error
}

// NewVerifier creates a verifier. toolPath may be empty, in which case the
// tool is looked up in the working directory and then on PATH.
func NewVerifier(toolPath string, runner CommandRunner, logger *zap.Logger) *Verifier {
	return &Verifier{
		configured: toolPath,
		runner:     runner,
		logger:     logger,
	}
}

// ToolPath returns the discovered tool path
func (v *Verifier) ToolPath() (string, error) {
	v.once.Do(func() {
		v.toolPath, v.toolErr = FindSigcheck(v.configured)
		if v.toolErr != nil {
			v.logger.Warn("Signature verification tool not found, verdicts will be Unverifiable", zap.Error(v.toolErr))
		}
	})
	return v.toolPath, v.toolErr
}

// Verify runs the tool against path. It never fails; any problem yields
// the Unverifiable verdict.
func (v *Verifier) Verify(ctx context.Context, path string) models.SignatureVerdict {
	tool, err := v.ToolPath()
	if err != nil {
		return models.UnverifiableVerdict()
	}

	out, err := v.runner.Run(ctx, tool, "-accepteula", "-nobanner", path)
	if !markerRe.MatchString(out) {
		if err == nil {
			err = errNoMarker
		}
		v.logger.Debug("Signature check failed",
			zap.String("path", path),
			zap.Error(errwrap.Wrapf("sigcheck: {{err}}", err)))
		return models.UnverifiableVerdict()
	}

	verified, publisher := ParseSigcheckOutput(out)
	return models.ToolVerdict(verified, publisher)
}

// ParseSigcheckOutput extracts the verification result and publisher
func ParseSigcheckOutput(out string) (verified bool, publisher string) {
	verified = verifiedRe.MatchString(out)
	if m := publisherRe.FindStringSubmatch(out); m != nil {
		publisher = m[1]
	}
	return verified, publisher
}

// FindSigcheck locates the verification tool: the configured path first,
// then the working directory, then each PATH entry
func FindSigcheck(configured string) (string, error) {
	if configured != "" {
		if filesystem.Exists(configured) {
			return configured, nil
		}
		return "", models.Errorf("find", configured, models.ErrToolUnavailable, "configured sigcheck path does not exist")
	}

	dirs := []string{"."}
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, name := range sigcheckNames {
			execPath := filepath.Join(dir, name)
			if !filesystem.Exists(execPath) {
				continue
			}
			if abs, err := filepath.Abs(execPath); err == nil {
				execPath = abs
			}
			return execPath, nil
		}
	}

	return "", models.Errorf("find", "sigcheck", models.ErrToolUnavailable,
		"sigcheck was not found in the current directory nor in the system path")
}
