package posture

// RegistryAccessor reads and writes DWORD values under HKEY_LOCAL_MACHINE
type RegistryAccessor interface {
	ReadDWORD(path, name string) (uint32, error)
	WriteDWORD(path, name string, value uint32) error
}
