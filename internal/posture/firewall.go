package posture

import (
	"context"
	"regexp"
	"strings"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

var profileStateRe = regexp.MustCompile(`(?im)^\s*State\s+(ON|OFF)\s*$`)

// FirewallControl checks that every firewall profile is enabled
type FirewallControl struct {
	runner CommandRunner
}

// NewFirewallControl creates the firewall control
func NewFirewallControl(runner CommandRunner) *FirewallControl {
	return &FirewallControl{runner: runner}
}

func (c *FirewallControl) Name() models.CheckName { return models.CheckFirewall }

func (c *FirewallControl) Recommended() string { return "On" }

func (c *FirewallControl) Action() string { return "netsh advfirewall set allprofiles state on" }

// Inspect queries the state of all profiles
func (c *FirewallControl) Inspect(ctx context.Context) (models.PostureState, string, error) {
	out, err := c.runner.Run(ctx, "netsh", "advfirewall", "show", "allprofiles", "state")
	if err != nil {
		return models.StateIndeterminate, "Unknown", err
	}
	state, current := ParseFirewallState(out)
	return state, current, nil
}

// Remediate turns every profile on
func (c *FirewallControl) Remediate(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "netsh", "advfirewall", "set", "allprofiles", "state", "on")
	return err
}

// ParseFirewallState classifies netsh profile output. Compliant requires
// every reported profile to be ON; output without any profile state is
// indeterminate.
func ParseFirewallState(output string) (models.PostureState, string) {
	on, off := 0, 0
	for _, m := range profileStateRe.FindAllStringSubmatch(output, -1) {
		if strings.EqualFold(m[1], "ON") {
			on++
		} else {
			off++
		}
	}

	switch {
	case on == 0 && off == 0:
		return models.StateIndeterminate, "Unknown"
	case off == 0:
		return models.StateCompliant, "On"
	case on == 0:
		return models.StateNonCompliant, "Off"
	default:
		return models.StateNonCompliant, "Partial/Off"
	}
}
