//go:build windows

package autorun

import (
	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"golang.org/x/sys/windows/registry"
)

// SystemRegistry reads run keys from the host registry
type SystemRegistry struct{}

// RunValues lists the string values of key, expanding REG_EXPAND_SZ data
func (SystemRegistry) RunValues(key RunKey) ([]RunValue, error) {
	root := registry.LOCAL_MACHINE
	if key.Hive == HiveCurrentUser {
		root = registry.CURRENT_USER
	}

	k, err := registry.OpenKey(root, key.Path, registry.QUERY_VALUE)
	if err != nil {
		return nil, filesystem.ClassifyError("open", key.String(), err)
	}
	defer k.Close()

	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil, filesystem.ClassifyError("enumerate", key.String(), err)
	}

	var values []RunValue
	for _, name := range names {
		val, valType, err := k.GetStringValue(name)
		if err != nil {
			continue
		}
		if valType == registry.EXPAND_SZ {
			if expanded, err := registry.ExpandString(val); err == nil {
				val = expanded
			}
		}
		values = append(values, RunValue{Name: name, Command: val})
	}
	return values, nil
}
