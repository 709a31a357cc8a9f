//go:build windows

package posture

import (
	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"golang.org/x/sys/windows/registry"
)

// SystemRegistry is the host registry
type SystemRegistry struct{}

// ReadDWORD reads HKLM\path\name
func (SystemRegistry) ReadDWORD(path, name string) (uint32, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return 0, filesystem.ClassifyError("registry read", path, err)
	}
	defer key.Close()

	val, _, err := key.GetIntegerValue(name)
	if err != nil {
		return 0, filesystem.ClassifyError("registry read", path+`\`+name, err)
	}
	return uint32(val), nil
}

// WriteDWORD sets HKLM\path\name
func (SystemRegistry) WriteDWORD(path, name string, value uint32) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.SET_VALUE)
	if err != nil {
		return filesystem.ClassifyError("registry write", path, err)
	}
	defer key.Close()

	if err := key.SetDWordValue(name, value); err != nil {
		return filesystem.ClassifyError("registry write", path+`\`+name, err)
	}
	return nil
}
