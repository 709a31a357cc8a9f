package posture

import (
	"context"
	"strings"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

// DefenderControl checks antivirus real-time protection
type DefenderControl struct {
	runner CommandRunner
}

// NewDefenderControl creates the real-time protection control
func NewDefenderControl(runner CommandRunner) *DefenderControl {
	return &DefenderControl{runner: runner}
}

func (c *DefenderControl) Name() models.CheckName { return models.CheckRealTimeProtection }

func (c *DefenderControl) Recommended() string { return "Active" }

func (c *DefenderControl) Action() string {
	return "Set-MpPreference -DisableRealtimeMonitoring $false"
}

// Inspect asks the security service for the real-time protection flag
func (c *DefenderControl) Inspect(ctx context.Context) (models.PostureState, string, error) {
	out, err := c.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command",
		"Get-MpComputerStatus | Select-Object -ExpandProperty RealTimeProtectionEnabled")
	if err != nil {
		return models.StateIndeterminate, "Unknown", err
	}

	switch strings.ToLower(strings.TrimSpace(out)) {
	case "true":
		return models.StateCompliant, "Active", nil
	case "false":
		return models.StateNonCompliant, "Inactive", nil
	default:
		return models.StateIndeterminate, "Unknown", nil
	}
}

// Remediate re-enables real-time monitoring
func (c *DefenderControl) Remediate(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", c.Action())
	return err
}
