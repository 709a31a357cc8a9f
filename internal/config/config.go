package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the winsentry configuration
type Config struct {
	// Scan settings
	MaxSize       string   `mapstructure:"max_size"`       // maximum file size to scan
	HashAlgorithm string   `mapstructure:"hash_algorithm"` // md5, sha1, sha256
	Extensions    []string `mapstructure:"extensions"`     // file extensions to scan
	SystemDir     string   `mapstructure:"system_dir"`     // expected home of reserved system binaries

	// Quick scan locations, environment references are expanded
	QuickScanLocations []string `mapstructure:"quick_scan_locations"`

	// Signature settings
	SignaturesPath string `mapstructure:"signatures_path"` // path to signature database file

	// Remediation settings
	QuarantineDir    string        `mapstructure:"quarantine_dir"`    // quarantine directory
	ProtectedPaths   []string      `mapstructure:"protected_paths"`   // never removed or moved
	TerminateTimeout time.Duration `mapstructure:"terminate_timeout"` // wait for process exit
	CommandTimeout   time.Duration `mapstructure:"command_timeout"`   // per external command

	// Signature verification tool, discovered on PATH when empty
	SigcheckPath string `mapstructure:"sigcheck_path"`

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // json, yaml, text
	OutputFile   string `mapstructure:"output_file"`   // output file path

	// Watch mode
	WatchSchedule string `mapstructure:"watch_schedule"` // cron spec for periodic quick scans
}

// DefaultExtensions are scanned when no extension list is given
var DefaultExtensions = []string{"exe", "dll", "scr", "bat", "cmd", "vbs", "js", "jar"}

// DefaultProtectedPaths are never deleted or moved
var DefaultProtectedPaths = []string{
	`C:\Windows\System32`,
	`C:\Windows\SysWOW64`,
	`C:\Program Files`,
	`C:\Program Files (x86)`,
	`C:\Windows\WinSxS`,
}

// LoadConfig loads configuration from an optional winsentry.yaml, environment
// variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("max_size", "100M")
	v.SetDefault("hash_algorithm", "sha256")
	v.SetDefault("extensions", DefaultExtensions)
	v.SetDefault("system_dir", `C:\Windows\System32`)
	v.SetDefault("quick_scan_locations", []string{})
	v.SetDefault("signatures_path", filepath.Join("resources", "signatures.yaml"))
	v.SetDefault("quarantine_dir", "quarantine")
	v.SetDefault("protected_paths", DefaultProtectedPaths)
	v.SetDefault("terminate_timeout", 3*time.Second)
	v.SetDefault("command_timeout", 30*time.Second)
	v.SetDefault("sigcheck_path", "")
	v.SetDefault("report_format", "")
	v.SetDefault("output_file", "")
	v.SetDefault("watch_schedule", "@every 6h")

	// Optional config file
	v.SetConfigName("winsentry")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Read environment variables
	v.SetEnvPrefix("WINSENTRY")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ContainsExtension reports whether ext is in list, ignoring case and a leading dot
func ContainsExtension(list []string, ext string) bool {
	ext = normalizeExtension(ext)
	for _, e := range list {
		if normalizeExtension(e) == ext {
			return true
		}
	}
	return false
}

// ScanLocations returns the expanded quick scan locations. The defaults are
// the per-user temp, roaming app data and downloads folders.
func (c *Config) ScanLocations() []string {
	locations := c.QuickScanLocations
	if len(locations) == 0 {
		locations = []string{
			"$TEMP",
			"$APPDATA",
			filepath.Join("$USERPROFILE", "Downloads"),
		}
	}

	var expanded []string
	for _, loc := range locations {
		missing := false
		loc = os.Expand(loc, func(key string) string {
			val := os.Getenv(key)
			if val == "" {
				missing = true
			}
			return val
		})
		if missing || loc == "" {
			continue
		}
		expanded = append(expanded, loc)
	}
	return expanded
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
