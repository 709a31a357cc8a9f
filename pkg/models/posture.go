package models

import (
	"context"
	"fmt"
	"time"
)

// CheckName names a security control
type CheckName string

const (
	CheckFirewall           CheckName = "Firewall"
	CheckUAC                CheckName = "UAC"
	CheckRealTimeProtection CheckName = "RealTimeProtection"
)

// PostureState is the classification of a single control
type PostureState int

const (
	StateCompliant PostureState = iota
	StateNonCompliant
	// StateIndeterminate means the state query failed or was denied. It is
	// shown as non-compliant but remediation never acts on it.
	StateIndeterminate
)

func (s PostureState) String() string {
	switch s {
	case StateCompliant:
		return "Compliant"
	case StateNonCompliant:
		return "NonCompliant"
	case StateIndeterminate:
		return "Indeterminate"
	default:
		return fmt.Sprintf("PostureState(%d)", int(s))
	}
}

// MarshalText encodes the state as its label
func (s PostureState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PostureCheck is the result of probing one control
type PostureCheck struct {
	Name             CheckName    `json:"name" yaml:"name"`
	State            PostureState `json:"state" yaml:"state"`
	Current          string       `json:"current" yaml:"current"`
	Recommended      string       `json:"recommended" yaml:"recommended"`
	NeedsRemediation bool         `json:"needs_remediation" yaml:"needs_remediation"`
	Detail           string       `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// NewPostureCheck derives NeedsRemediation from the state against the
// control's fixed baseline.
func NewPostureCheck(name CheckName, state PostureState, current, recommended string) PostureCheck {
	return PostureCheck{
		Name:             name,
		State:            state,
		Current:          current,
		Recommended:      recommended,
		NeedsRemediation: state != StateCompliant,
	}
}

// RemediationAction is a corrective operation bound to one check
type RemediationAction struct {
	Check       CheckName `json:"check" yaml:"check"`
	Name        string    `json:"name" yaml:"name"`
	TargetState string    `json:"target_state" yaml:"target_state"`

	// Execute applies the change
	Execute func(ctx context.Context) error `json:"-" yaml:"-"`
}

// ActionStatus is the outcome recorded for a remediation step
type ActionStatus string

const (
	ActionInfo    ActionStatus = "info"
	ActionDryRun  ActionStatus = "dry_run"
	ActionApplied ActionStatus = "applied"
	ActionFailed  ActionStatus = "failed"
	ActionSkipped ActionStatus = "skipped"
)

// ActionLogEntry records one step of a remediation pass
type ActionLogEntry struct {
	Time    time.Time    `json:"time" yaml:"time"`
	Check   CheckName    `json:"check,omitempty" yaml:"check,omitempty"`
	Action  string       `json:"action,omitempty" yaml:"action,omitempty"`
	Status  ActionStatus `json:"status" yaml:"status"`
	Message string       `json:"message" yaml:"message"`
}

func (e ActionLogEntry) String() string {
	switch e.Status {
	case ActionDryRun:
		return "[DRY RUN] Would execute: " + e.Action
	case ActionApplied:
		return "[OK] " + e.Action
	case ActionFailed:
		return "Failed: " + e.Message
	case ActionSkipped:
		return "[SKIPPED] " + e.Message
	default:
		return e.Message
	}
}
