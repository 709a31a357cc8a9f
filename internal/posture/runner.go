package posture

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

// CommandRunner runs an external status or remediation command
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the host with a per-command timeout
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes name with args and returns its combined output
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", models.NewOpError("exec", name, models.ErrToolUnavailable, err)
		}
		return string(out), models.Errorf("exec", name, nil, "%w: %s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
