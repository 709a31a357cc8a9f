package process

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/shirou/gopsutil/v3/process"
)

// Info identifies a running process
type Info struct {
	PID  int32
	Name string
}

// Table is a view of the running processes
type Table interface {
	// List returns the processes running now
	List(ctx context.Context) ([]Info, error)

	// ExePath resolves the executable image path of pid
	ExePath(ctx context.Context, pid int32) (string, error)

	// Terminate requests termination of pid
	Terminate(ctx context.Context, pid int32) error

	// IsRunning reports whether pid still exists
	IsRunning(ctx context.Context, pid int32) (bool, error)
}

// SystemTable reads the host process table
type SystemTable struct{}

// NewSystemTable creates a process table backed by the operating system
func NewSystemTable() *SystemTable {
	return &SystemTable{}
}

// List returns the processes running now. Processes that exit while being
// listed are left out.
func (t *SystemTable) List(ctx context.Context) ([]Info, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, classify("list processes", "", err)
	}

	infos := make([]Info, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		infos = append(infos, Info{PID: p.Pid, Name: name})
	}
	return infos, nil
}

// ExePath resolves the executable image path of pid
func (t *SystemTable) ExePath(ctx context.Context, pid int32) (string, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return "", classify("resolve", pidString(pid), err)
	}
	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		return "", classify("resolve", pidString(pid), err)
	}
	return exe, nil
}

// Terminate requests termination of pid
func (t *SystemTable) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return classify("terminate", pidString(pid), err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return classify("terminate", pidString(pid), err)
	}
	return nil
}

// IsRunning reports whether pid still exists
func (t *SystemTable) IsRunning(ctx context.Context, pid int32) (bool, error) {
	exists, err := process.PidExistsWithContext(ctx, pid)
	if err != nil {
		return false, classify("poll", pidString(pid), err)
	}
	if !exists {
		return false, nil
	}
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return false, nil
		}
		return false, classify("poll", pidString(pid), err)
	}
	return p.IsRunningWithContext(ctx)
}

// TerminateAndWait requests termination of pid and polls until it exits or
// timeout elapses. An unconfirmed exit is reported as
// models.ErrTerminationUnconfirmed.
func TerminateAndWait(ctx context.Context, t Table, pid int32, timeout, interval time.Duration) error {
	if err := t.Terminate(ctx, pid); err != nil {
		return err
	}

	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		running, err := t.IsRunning(ctx, pid)
		if err == nil && !running {
			return nil
		}

		select {
		case <-ctx.Done():
			return models.Errorf("terminate", pidString(pid), models.ErrTerminationUnconfirmed,
				"still running after %s", timeout)
		case <-ticker.C:
		}
	}
}

// classify maps process errors onto the shared error kinds
func classify(op, target string, err error) error {
	switch {
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, os.ErrProcessDone):
		return models.NewOpError(op, target, models.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return models.NewOpError(op, target, models.ErrAccessDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return models.NewOpError(op, target, models.ErrNotFound, err)
	default:
		return models.NewOpError(op, target, nil, err)
	}
}

func pidString(pid int32) string {
	return "pid " + strconv.Itoa(int(pid))
}
