//go:build !windows

package autorun

import "github.com/IvanShishkin/winsentry/pkg/models"

// SystemRegistry has no run keys outside Windows
type SystemRegistry struct{}

// RunValues reports every key as absent
func (SystemRegistry) RunValues(key RunKey) ([]RunValue, error) {
	return nil, models.NewOpError("open", key.String(), models.ErrNotFound, nil)
}
