package posture

import (
	"context"
	"fmt"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

const (
	uacKeyPath   = `SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\System`
	uacValueName = "EnableLUA"
)

// UACControl checks the EnableLUA policy value
type UACControl struct {
	registry RegistryAccessor
}

// NewUACControl creates the UAC control
func NewUACControl(reg RegistryAccessor) *UACControl {
	return &UACControl{registry: reg}
}

func (c *UACControl) Name() models.CheckName { return models.CheckUAC }

func (c *UACControl) Recommended() string { return "Enabled" }

func (c *UACControl) Action() string {
	return `set HKLM\` + uacKeyPath + `\` + uacValueName + ` = 1`
}

// Inspect reads EnableLUA
func (c *UACControl) Inspect(ctx context.Context) (models.PostureState, string, error) {
	val, err := c.registry.ReadDWORD(uacKeyPath, uacValueName)
	if err != nil {
		return models.StateIndeterminate, "Unknown", err
	}

	switch val {
	case 1:
		return models.StateCompliant, "Enabled", nil
	case 0:
		return models.StateNonCompliant, "Disabled", nil
	default:
		return models.StateIndeterminate, fmt.Sprintf("Unknown (%d)", val), nil
	}
}

// Remediate sets EnableLUA to 1
func (c *UACControl) Remediate(ctx context.Context) error {
	return c.registry.WriteDWORD(uacKeyPath, uacValueName, 1)
}
