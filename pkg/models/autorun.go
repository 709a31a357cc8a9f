package models

// AutorunSource is the startup mechanism kind
type AutorunSource string

const (
	SourceRegistry      AutorunSource = "Registry"
	SourceStartupFolder AutorunSource = "StartupFolder"
)

// AutorunScope is the root scope of a startup mechanism
type AutorunScope string

const (
	ScopeMachineWide AutorunScope = "MachineWide"
	ScopeCurrentUser AutorunScope = "CurrentUser"
	ScopeFileSystem  AutorunScope = "FileSystem"
)

// VerifyMethod tells how a signature verdict was obtained
type VerifyMethod string

const (
	MethodExternalTool VerifyMethod = "ExternalTool"
	MethodUnverifiable VerifyMethod = "Unverifiable"
)

// SignatureVerdict is the code-signing status of an executable.
// Verified implies Signed.
type SignatureVerdict struct {
	Signed    bool         `json:"signed" yaml:"signed"`
	Verified  bool         `json:"verified" yaml:"verified"`
	Publisher string       `json:"publisher" yaml:"publisher"`
	Method    VerifyMethod `json:"method" yaml:"method"`
}

// UnverifiableVerdict is the fallback used when no verification tool could run
func UnverifiableVerdict() SignatureVerdict {
	return SignatureVerdict{
		Publisher: "Unverifiable",
		Method:    MethodUnverifiable,
	}
}

// ToolVerdict builds a verdict reported by the external tool
func ToolVerdict(verified bool, publisher string) SignatureVerdict {
	return SignatureVerdict{
		Signed:    verified,
		Verified:  verified,
		Publisher: publisher,
		Method:    MethodExternalTool,
	}
}

// AutorunEntry is one startup mechanism instance
type AutorunEntry struct {
	Name           string           `json:"name" yaml:"name"`
	Source         AutorunSource    `json:"source" yaml:"source"`
	Scope          AutorunScope     `json:"scope" yaml:"scope"`
	Location       string           `json:"location" yaml:"location"`
	Command        string           `json:"command" yaml:"command"`
	ExecutablePath string           `json:"executable_path" yaml:"executable_path"`
	Verdict        SignatureVerdict `json:"verdict" yaml:"verdict"`
}
