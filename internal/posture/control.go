package posture

import (
	"context"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Control is one security setting that can be inspected and corrected
type Control interface {
	// Name returns the check name
	Name() models.CheckName

	// Recommended returns the baseline state label
	Recommended() string

	// Inspect reads the current state without changing anything
	Inspect(ctx context.Context) (state models.PostureState, current string, err error)

	// Action describes the corrective command
	Action() string

	// Remediate applies the corrective command
	Remediate(ctx context.Context) error
}

// DefaultControls returns the firewall, UAC and real-time protection controls
func DefaultControls(runner CommandRunner, reg RegistryAccessor) []Control {
	return []Control{
		NewFirewallControl(runner),
		NewUACControl(reg),
		NewDefenderControl(runner),
	}
}
