package signatures

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	loader := NewLoader(path, zap.NewNop())

	reloaded := make(chan *Store, 16)
	w, err := NewWatcher(loader, zap.NewNop(), func(s *Store) {
		select {
		case reloaded <- s:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	before := w.Current()
	if !before.IsReservedName("svchost.exe") {
		t.Fatal("initial store missing default names")
	}

	if err := os.WriteFile(path, []byte("suspicious_names: [evil.exe]\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite database: %v", err)
	}

	// A write can surface as several events; wait for the one with the final content
	timeout := time.After(5 * time.Second)
	for {
		var got *Store
		select {
		case got = <-reloaded:
		case <-timeout:
			t.Fatal("onReload was not called with the rewritten database")
		}
		if got.IsReservedName("evil.exe") {
			break
		}
	}
	if !w.Current().IsReservedName("evil.exe") {
		t.Fatal("Current() did not pick up the rewritten database")
	}

	// Snapshot taken before the reload is unchanged
	if !before.IsReservedName("svchost.exe") || before.IsReservedName("evil.exe") {
		t.Error("earlier snapshot was mutated by reload")
	}
}
