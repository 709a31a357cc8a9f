package filesystem

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/IvanShishkin/winsentry/pkg/models"
)

// Supported hash algorithms
const (
	AlgoMD5    = "md5"
	AlgoSHA1   = "sha1"
	AlgoSHA256 = "sha256"
)

// HashFile streams the file content through the named digest and returns it
// as lower-case hex
func HashFile(path, algo string) (string, error) {
	h, err := newHash(algo)
	if err != nil {
		return "", models.NewOpError("hash", path, nil, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", ClassifyError("hash", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", ClassifyError("hash", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case AlgoMD5:
		return md5.New(), nil
	case AlgoSHA1:
		return sha1.New(), nil
	case AlgoSHA256, "":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
	}
}

// Stat returns file metadata including the OS hidden flag
func Stat(path string) (models.FileAttributes, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.FileAttributes{}, ClassifyError("stat", path, err)
	}

	return models.FileAttributes{
		Path:      path,
		Name:      info.Name(),
		Extension: strings.ToLower(GetExtension(path)),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Hidden:    isHidden(path, info),
		Regular:   info.Mode().IsRegular(),
	}, nil
}

// ClassifyError maps OS errors onto the shared error kinds
func ClassifyError(op, target string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return models.NewOpError(op, target, models.ErrAccessDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return models.NewOpError(op, target, models.ErrNotFound, err)
	default:
		return models.NewOpError(op, target, nil, err)
	}
}

// Exists reports whether path names an existing file or directory
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ParseSize parses size string (e.g., "650K", "1M") to bytes
func ParseSize(sizeStr string) int64 {
	sizeStr = strings.TrimSpace(sizeStr)
	if len(sizeStr) == 0 {
		return 0
	}

	// Get last character (unit)
	last := sizeStr[len(sizeStr)-1]
	var multiplier int64 = 1

	switch last {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	// Parse number
	var size int64
	fmt.Sscanf(sizeStr, "%d", &size)

	return size * multiplier
}

// GetExtension returns the file extension without dot
func GetExtension(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

// CopyFile copies a file from src to dst, failing if dst exists
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err = io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// MoveFile renames src to dst, copying across volumes when rename fails
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
