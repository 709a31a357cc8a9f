package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestContainsExtension(t *testing.T) {
	tests := []struct {
		name      string
		extension string
		list      []string
		expected  bool
	}{
		{"EXE in defaults", "exe", DefaultExtensions, true},
		{"Upper-case DLL in defaults", "DLL", DefaultExtensions, true},
		{"Dotted JAR in defaults", ".jar", DefaultExtensions, true},
		{"TXT not in defaults", "txt", DefaultExtensions, false},
		{"Custom list", "ps1", []string{".PS1", "hta"}, true},
		{"Non-matching custom list", "exe", []string{"ps1", "hta"}, false},
		{"Empty list", "exe", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsExtension(tt.list, tt.extension); got != tt.expected {
				t.Errorf("ContainsExtension(%v, %q) = %v, want %v", tt.list, tt.extension, got, tt.expected)
			}
		})
	}
}

func TestScanLocations(t *testing.T) {
	t.Setenv("TEMP", "/tmp/user")
	t.Setenv("APPDATA", "")
	t.Setenv("USERPROFILE", "/home/user")

	cfg := &Config{}
	got := cfg.ScanLocations()

	want := []string{"/tmp/user", filepath.Join("/home/user", "Downloads")}
	if len(got) != len(want) {
		t.Fatalf("ScanLocations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ScanLocations()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanLocations_Custom(t *testing.T) {
	t.Setenv("WS_TEST_ROOT", "/data")

	cfg := &Config{QuickScanLocations: []string{"$WS_TEST_ROOT/in", "$WS_TEST_UNSET/out"}}
	got := cfg.ScanLocations()

	if len(got) != 1 || got[0] != "/data/in" {
		t.Errorf("ScanLocations() = %v, want [/data/in]", got)
	}
}

func TestLoadConfig(t *testing.T) {
	// Run from an empty directory so no winsentry.yaml is picked up
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.MaxSize != "100M" {
		t.Errorf("Default max_size = %v, want %v", cfg.MaxSize, "100M")
	}

	if cfg.HashAlgorithm != "sha256" {
		t.Errorf("Default hash_algorithm = %v, want %v", cfg.HashAlgorithm, "sha256")
	}

	if cfg.SystemDir != `C:\Windows\System32` {
		t.Errorf("Default system_dir = %v, want %v", cfg.SystemDir, `C:\Windows\System32`)
	}

	if cfg.TerminateTimeout != 3*time.Second {
		t.Errorf("Default terminate_timeout = %v, want %v", cfg.TerminateTimeout, 3*time.Second)
	}

	if len(cfg.Extensions) != len(DefaultExtensions) {
		t.Errorf("Default extensions count = %v, want %v", len(cfg.Extensions), len(DefaultExtensions))
	}

	if len(cfg.ProtectedPaths) != len(DefaultProtectedPaths) {
		t.Errorf("Default protected_paths count = %v, want %v", len(cfg.ProtectedPaths), len(DefaultProtectedPaths))
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WINSENTRY_HASH_ALGORITHM", "md5")
	t.Setenv("WINSENTRY_TERMINATE_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.HashAlgorithm != "md5" {
		t.Errorf("hash_algorithm = %v, want %v", cfg.HashAlgorithm, "md5")
	}
	if cfg.TerminateTimeout != 5*time.Second {
		t.Errorf("terminate_timeout = %v, want %v", cfg.TerminateTimeout, 5*time.Second)
	}
}
