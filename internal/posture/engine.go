package posture

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/IvanShishkin/winsentry/internal/config"
	"github.com/IvanShishkin/winsentry/internal/privilege"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

// Engine inspects security controls and applies their remediation
type Engine struct {
	controls []Control
	elevated privilege.Guard
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine creates an engine over controls. elevated is consulted once at
// the start of every live remediation pass.
func NewEngine(controls []Control, elevated privilege.Guard, logger *zap.Logger) *Engine {
	return &Engine{
		controls: controls,
		elevated: elevated,
		logger:   logger,
		now:      time.Now,
	}
}

// NewSystemEngine creates an engine that inspects the host
func NewSystemEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	runner := ExecRunner{Timeout: cfg.CommandTimeout}
	return NewEngine(DefaultControls(runner, SystemRegistry{}), privilege.Current(), logger)
}

// CheckPosture inspects every control concurrently. A failing or panicking
// control yields an Indeterminate check and never affects the others.
func (e *Engine) CheckPosture(ctx context.Context) map[models.CheckName]models.PostureCheck {
	checks := make([]models.PostureCheck, len(e.controls))

	var wg sync.WaitGroup
	for i, c := range e.controls {
		wg.Add(1)
		go func(i int, c Control) {
			defer wg.Done()
			checks[i] = e.inspect(ctx, c)
		}(i, c)
	}
	wg.Wait()

	result := make(map[models.CheckName]models.PostureCheck, len(checks))
	for _, check := range checks {
		result[check.Name] = check
	}
	return result
}

func (e *Engine) inspect(ctx context.Context, c Control) (check models.PostureCheck) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Posture inspection panicked",
				zap.String("check", string(c.Name())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			check = models.NewPostureCheck(c.Name(), models.StateIndeterminate, "Unknown", c.Recommended())
			check.Detail = fmt.Sprintf("inspection panicked: %v", r)
		}
	}()

	state, current, err := c.Inspect(ctx)
	check = models.NewPostureCheck(c.Name(), state, current, c.Recommended())
	if err != nil {
		e.logger.Warn("Posture inspection failed", zap.String("check", string(c.Name())), zap.Error(err))
		check.Detail = err.Error()
	}
	return check
}

// Actions binds each non-compliant check to its control's corrective
// command. Compliant and Indeterminate checks get no action.
func (e *Engine) Actions(checks map[models.CheckName]models.PostureCheck) []models.RemediationAction {
	var actions []models.RemediationAction
	for _, c := range e.controls {
		check, ok := checks[c.Name()]
		if !ok || check.State != models.StateNonCompliant {
			continue
		}
		actions = append(actions, models.RemediationAction{
			Check:       c.Name(),
			Name:        c.Action(),
			TargetState: c.Recommended(),
			Execute:     c.Remediate,
		})
	}
	return actions
}

// ApplyRemediation corrects every non-compliant control. In dry-run mode
// the actions are only logged. A live pass without elevation, or a pass
// where no control could be inspected, returns a single failed entry.
// Indeterminate checks are reported as skipped, then actions run one after
// another in control order.
func (e *Engine) ApplyRemediation(ctx context.Context, dryRun bool) []models.ActionLogEntry {
	if !dryRun && (e.elevated == nil || !e.elevated()) {
		e.logger.Warn("Remediation refused: insufficient privilege")
		return []models.ActionLogEntry{e.entry("", "", models.ActionFailed, "insufficient privilege")}
	}

	e.logger.Info("Starting remediation", zap.Bool("dry_run", dryRun))

	// Never act on stale posture
	checks := e.CheckPosture(ctx)
	if unreadable(checks) {
		return []models.ActionLogEntry{e.entry("", "", models.ActionFailed, "security posture could not be read")}
	}

	var log []models.ActionLogEntry
	for _, c := range e.controls {
		if check, ok := checks[c.Name()]; ok && check.State == models.StateIndeterminate {
			log = append(log, e.entry(c.Name(), c.Action(), models.ActionSkipped,
				fmt.Sprintf("%s state unknown, not changed", c.Name())))
		}
	}

	actions := e.Actions(checks)
	for _, a := range actions {
		if dryRun {
			log = append(log, e.entry(a.Check, a.Name, models.ActionDryRun, ""))
			continue
		}

		if err := a.Execute(ctx); err != nil {
			e.logger.Warn("Remediation action failed",
				zap.String("check", string(a.Check)),
				zap.Error(err))
			log = append(log, e.entry(a.Check, a.Name, models.ActionFailed,
				fmt.Sprintf("%s: %v", a.Name, err)))
			continue
		}

		e.logger.Info("Remediation applied", zap.String("check", string(a.Check)))
		log = append(log, e.entry(a.Check, a.Name, models.ActionApplied, ""))
	}

	if len(actions) == 0 {
		log = append(log, e.entry("", "", models.ActionInfo, "No remediation needed"))
	}
	return log
}

func (e *Engine) entry(check models.CheckName, action string, status models.ActionStatus, msg string) models.ActionLogEntry {
	return models.ActionLogEntry{
		Time:    e.now(),
		Check:   check,
		Action:  action,
		Status:  status,
		Message: msg,
	}
}

// unreadable reports an empty or all-Indeterminate posture
func unreadable(checks map[models.CheckName]models.PostureCheck) bool {
	for _, c := range checks {
		if c.State != models.StateIndeterminate {
			return false
		}
	}
	return true
}
