package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"Bytes", "100", 100},
		{"Kilobytes", "1K", 1024},
		{"Kilobytes lowercase", "1k", 1024},
		{"Megabytes", "1M", 1024 * 1024},
		{"Megabytes lowercase", "1m", 1024 * 1024},
		{"Gigabytes", "1G", 1024 * 1024 * 1024},
		{"Default max size", "100M", 100 * 1024 * 1024},
		{"Invalid format", "abc", 0},
		{"Empty string", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSize(tt.input); got != tt.expected {
				t.Errorf("ParseSize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/path/to/file.exe", "exe"},
		{"/path/to/file.EXE", "EXE"}, // Extension preserves case
		{"/path/to/setup.exe.exe", "exe"},
		{"/path/to/file", ""},
		{"file.scr", "scr"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := GetExtension(tt.path); got != tt.expected {
				t.Errorf("GetExtension(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestHashFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "empty.exe")
	if err := os.WriteFile(testFile, nil, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []struct {
		algo     string
		expected string
	}{
		{"md5", "d41d8cd98f00b204e9800998ecf8427e"},
		{"sha1", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"sha256", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"SHA256", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(tt.algo, func(t *testing.T) {
			got, err := HashFile(testFile, tt.algo)
			if err != nil {
				t.Fatalf("HashFile() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("HashFile(%q) = %v, want %v", tt.algo, got, tt.expected)
			}
		})
	}
}

func TestHashFile_Errors(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "missing.exe"), "sha256")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("HashFile() on missing file error = %v, want ErrNotFound", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "a.exe")
	os.WriteFile(tmpFile, []byte("x"), 0644)
	if _, err := HashFile(tmpFile, "crc64"); err == nil {
		t.Error("HashFile() expected error for unsupported algorithm, got nil")
	}
}

func TestStat(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "Tool.EXE")
	if err := os.WriteFile(testFile, []byte("abc"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	attrs, err := Stat(testFile)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if attrs.Size != 3 {
		t.Errorf("Size = %v, want %v", attrs.Size, 3)
	}
	if attrs.Name != "Tool.EXE" {
		t.Errorf("Name = %v, want %v", attrs.Name, "Tool.EXE")
	}
	if attrs.Extension != "exe" {
		t.Errorf("Extension = %v, want %v", attrs.Extension, "exe")
	}
	if attrs.Hidden {
		t.Error("Hidden = true, want false")
	}
	if !attrs.Regular {
		t.Error("Regular = false, want true")
	}

	dirAttrs, err := Stat(tmpDir)
	if err != nil {
		t.Fatalf("Stat() on directory error = %v", err)
	}
	if dirAttrs.Regular {
		t.Error("Regular = true for a directory, want false")
	}

	if _, err := Stat(filepath.Join(tmpDir, "nope")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Stat() on missing file error = %v, want ErrNotFound", err)
	}
}

func TestMoveFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "src.exe")
	dst := filepath.Join(tmpDir, "dst.exe")
	os.WriteFile(src, []byte("payload"), 0644)

	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}
	if Exists(src) {
		t.Error("source still exists after MoveFile()")
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "payload" {
		t.Errorf("moved content = %q, want %q", data, "payload")
	}
}

func TestCopyFile_RefusesOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "a")
	dst := filepath.Join(tmpDir, "b")
	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("old"), 0644)

	if err := CopyFile(src, dst); err == nil {
		t.Error("CopyFile() expected error when destination exists, got nil")
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "old" {
		t.Errorf("destination content = %q, want %q", data, "old")
	}
}

func TestWalkerFiles(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "sub", "deep"), 0755)
	os.WriteFile(filepath.Join(root, "a.exe"), nil, 0644)
	os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0644)
	os.WriteFile(filepath.Join(root, "sub", "b.DLL"), nil, 0644)
	os.WriteFile(filepath.Join(root, "sub", "deep", "c.js"), nil, 0644)

	var dirs []string
	w := NewWalker(zap.NewNop(), func(dir string) { dirs = append(dirs, dir) })

	var got []string
	for path := range w.Files(root, []string{"exe", "dll"}) {
		got = append(got, filepath.Base(path))
	}
	slices.Sort(got)

	want := []string{"a.exe", "b.DLL"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
	if len(dirs) != 3 {
		t.Errorf("onDir called %d times, want 3", len(dirs))
	}

	// Restartable: a second range walks again
	count := 0
	for range w.Files(root, nil) {
		count++
	}
	if count != 4 {
		t.Errorf("second Files() yielded %d files, want 4", count)
	}
}

func TestWalkerFiles_EarlyStop(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.exe", "b.exe", "c.exe"} {
		os.WriteFile(filepath.Join(root, name), nil, 0644)
	}

	w := NewWalker(zap.NewNop(), nil)
	count := 0
	for range w.Files(root, nil) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("Files() after break yielded %d, want 1", count)
	}
}

func TestWalkerFiles_MissingRoot(t *testing.T) {
	w := NewWalker(zap.NewNop(), nil)
	for path := range w.Files(filepath.Join(t.TempDir(), "missing"), nil) {
		t.Errorf("Files() on missing root yielded %v", path)
	}
}

func TestIsProtected(t *testing.T) {
	protected := []string{`C:\Windows\System32`, `C:\Program Files`}

	tests := []struct {
		path     string
		expected bool
	}{
		{`C:\Windows\System32\drivers\etc\hosts`, true},
		{`c:\windows\system32`, true},
		{`C:\Program Files\App\app.exe`, true},
		{`C:\Windows\System32evil\x.exe`, false},
		{`C:\Users\bob\Downloads\x.exe`, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsProtected(tt.path, protected); got != tt.expected {
				t.Errorf("IsProtected(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}
