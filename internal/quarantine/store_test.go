package quarantine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, protected ...string) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "quarantine"), protected, zap.NewNop())
	s.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
	return s
}

func TestStore_Quarantine(t *testing.T) {
	store := newTestStore(t)
	src := filepath.Join(t.TempDir(), "evil.exe")
	os.WriteFile(src, []byte("payload"), 0644)

	dest, err := store.Quarantine(src)
	if err != nil {
		t.Fatalf("Quarantine() error = %v", err)
	}

	if filepath.Base(dest) != "evil.exe" {
		t.Errorf("Quarantine() dest = %v, want base name kept", dest)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Error("source still exists after Quarantine()")
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "payload" {
		t.Errorf("quarantined content = %q, want %q", data, "payload")
	}
}

func TestStore_Quarantine_Collision(t *testing.T) {
	store := newTestStore(t)

	first := filepath.Join(t.TempDir(), "dup.exe")
	second := filepath.Join(t.TempDir(), "dup.exe")
	third := filepath.Join(t.TempDir(), "dup.exe")
	os.WriteFile(first, []byte("one"), 0644)
	os.WriteFile(second, []byte("two"), 0644)
	os.WriteFile(third, []byte("three"), 0644)

	d1, err := store.Quarantine(first)
	if err != nil {
		t.Fatalf("Quarantine(first) error = %v", err)
	}
	d2, err := store.Quarantine(second)
	if err != nil {
		t.Fatalf("Quarantine(second) error = %v", err)
	}
	d3, err := store.Quarantine(third)
	if err != nil {
		t.Fatalf("Quarantine(third) error = %v", err)
	}

	if filepath.Base(d2) != "dup_20240305_140709.exe" {
		t.Errorf("second dest = %v, want %v", filepath.Base(d2), "dup_20240305_140709.exe")
	}
	if d1 == d2 || d2 == d3 || d1 == d3 {
		t.Fatalf("destinations collide: %v, %v, %v", d1, d2, d3)
	}

	for dest, want := range map[string]string{d1: "one", d2: "two", d3: "three"} {
		data, _ := os.ReadFile(dest)
		if string(data) != want {
			t.Errorf("content of %s = %q, want %q", filepath.Base(dest), data, want)
		}
	}

	entries, _ := store.List()
	if len(entries) != 3 {
		t.Errorf("List() = %d entries, want 3", len(entries))
	}
}

func TestStore_Quarantine_Concurrent(t *testing.T) {
	store := newTestStore(t)

	const n = 8
	var wg sync.WaitGroup
	dests := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		src := filepath.Join(t.TempDir(), "same.dll")
		os.WriteFile(src, []byte{byte(i)}, 0644)
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			dests[i], errs[i] = store.Quarantine(src)
		}(i, src)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Quarantine() error = %v", errs[i])
		}
		if seen[dests[i]] {
			t.Fatalf("duplicate destination %v", dests[i])
		}
		seen[dests[i]] = true
	}

	entries, _ := store.List()
	if len(entries) != n {
		t.Errorf("List() = %d entries, want %d", len(entries), n)
	}
}

func TestStore_Quarantine_Protected(t *testing.T) {
	protectedDir := t.TempDir()
	store := newTestStore(t, protectedDir)

	src := filepath.Join(protectedDir, "kernel.dll")
	os.WriteFile(src, []byte("x"), 0644)

	_, err := store.Quarantine(src)
	if !errors.Is(err, models.ErrProtectedTarget) {
		t.Errorf("Quarantine() error = %v, want ErrProtectedTarget", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("protected file was moved")
	}
}

func TestStore_Quarantine_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Quarantine(filepath.Join(t.TempDir(), "gone.exe"))
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Quarantine() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Restore(t *testing.T) {
	store := newTestStore(t)
	src := filepath.Join(t.TempDir(), "tool.exe")
	os.WriteFile(src, []byte("data"), 0644)

	if _, err := store.Quarantine(src); err != nil {
		t.Fatalf("Quarantine() error = %v", err)
	}

	restoreDir := t.TempDir()
	occupied := filepath.Join(restoreDir, "tool.exe")
	os.WriteFile(occupied, []byte("keep"), 0644)

	if _, err := store.Restore("tool.exe", restoreDir); err == nil {
		t.Error("Restore() overwrote an existing file")
	}
	data, _ := os.ReadFile(occupied)
	if string(data) != "keep" {
		t.Errorf("existing file content = %q, want %q", data, "keep")
	}

	other := t.TempDir()
	dest, err := store.Restore("tool.exe", other)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, _ = os.ReadFile(dest)
	if string(data) != "data" {
		t.Errorf("restored content = %q, want %q", data, "data")
	}

	if _, err := store.Restore("tool.exe", other); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Restore() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List_Empty(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %d entries, want 0", len(entries))
	}
}

func TestStore_List_QuarantineTime(t *testing.T) {
	store := newTestStore(t)
	srcDir := t.TempDir()
	old := time.Date(2015, 1, 2, 3, 4, 5, 0, time.UTC)

	first := filepath.Join(srcDir, "later.exe")
	second := filepath.Join(srcDir, "ancient.exe")
	os.WriteFile(first, []byte("a"), 0644)
	os.WriteFile(second, []byte("b"), 0644)
	// The older file on disk is quarantined second
	os.Chtimes(second, old, old)

	t1 := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	store.now = func() time.Time { return t1 }
	if _, err := store.Quarantine(first); err != nil {
		t.Fatalf("Quarantine(first) error = %v", err)
	}
	store.now = func() time.Time { return t2 }
	if _, err := store.Quarantine(second); err != nil {
		t.Fatalf("Quarantine(second) error = %v", err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}
	if entries[0].Name != "later.exe" || !entries[0].QuarantinedAt.Equal(t1) {
		t.Errorf("entries[0] = %s at %v, want later.exe at %v", entries[0].Name, entries[0].QuarantinedAt, t1)
	}
	if entries[1].Name != "ancient.exe" || !entries[1].QuarantinedAt.Equal(t2) {
		t.Errorf("entries[1] = %s at %v, want ancient.exe at %v", entries[1].Name, entries[1].QuarantinedAt, t2)
	}
}
