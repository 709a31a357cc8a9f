package hash

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

func TestDetector_Detect(t *testing.T) {
	tmpDir := t.TempDir()
	bad := filepath.Join(tmpDir, "bad.exe")
	clean := filepath.Join(tmpDir, "clean.exe")
	os.WriteFile(bad, []byte("malicious"), 0644)
	os.WriteFile(clean, []byte("benign"), 0644)

	digest, err := filesystem.HashFile(bad, "md5")
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	db := models.NewSignatureDatabase()
	db.Hashes[digest] = "Test-Family"
	store := signatures.NewStore(db, zap.NewNop())

	var hashed []string
	detector := NewDetector("md5", func(path string) { hashed = append(hashed, path) })

	findings, err := detector.Detect(context.Background(), &models.FileAttributes{Path: bad, Name: "bad.exe"}, store)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("Detect() findings = %d, want 1", len(findings))
	}
	if findings[0].Rule != models.RuleKnownHash || findings[0].Severity != models.SeverityCritical {
		t.Errorf("finding = %v/%v, want KnownHash/Critical", findings[0].Rule, findings[0].Severity)
	}

	findings, err = detector.Detect(context.Background(), &models.FileAttributes{Path: clean, Name: "clean.exe"}, store)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("Detect() on clean file findings = %d, want 0", len(findings))
	}

	if len(hashed) != 2 {
		t.Errorf("beforeHash called %d times, want 2", len(hashed))
	}
}

func TestDetector_MissingFile(t *testing.T) {
	store := signatures.NewStore(models.DefaultSignatureDatabase(), zap.NewNop())
	detector := NewDetector("sha256", nil)

	file := &models.FileAttributes{Path: filepath.Join(t.TempDir(), "gone.exe"), Name: "gone.exe"}
	if _, err := detector.Detect(context.Background(), file, store); err == nil {
		t.Error("Detect() expected error for missing file, got nil")
	}
}

func TestDetector_Extensions(t *testing.T) {
	detector := NewDetector("sha256", nil)

	tests := []struct {
		ext      string
		expected bool
	}{
		{"exe", true}, {"dll", true}, {"scr", true}, {"bat", true}, {"cmd", true},
		{"vbs", false}, {"js", false}, {"jar", false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := detector.SupportsFile(tt.ext); got != tt.expected {
				t.Errorf("SupportsFile(%q) = %v, want %v", tt.ext, got, tt.expected)
			}
		})
	}
}
