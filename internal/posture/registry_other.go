//go:build !windows

package posture

import "github.com/IvanShishkin/winsentry/pkg/models"

// SystemRegistry is unavailable outside Windows; every call fails
type SystemRegistry struct{}

// ReadDWORD always fails
func (SystemRegistry) ReadDWORD(path, name string) (uint32, error) {
	return 0, models.Errorf("registry read", path, models.ErrToolUnavailable, "registry requires Windows")
}

// WriteDWORD always fails
func (SystemRegistry) WriteDWORD(path, name string, value uint32) error {
	return models.Errorf("registry write", path, models.ErrToolUnavailable, "registry requires Windows")
}
