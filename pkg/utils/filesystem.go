// Package utils provides utility functions
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureDirectory ensures a directory exists, creating it and any missing
// parents. Calling it on an existing directory is not an error.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CanonicalPath resolves a path to its absolute form with symlinks
// evaluated. The path must exist. The Windows `\\?\` extended-length prefix
// is stripped because native toolchains (GCC's linker among them) do not
// accept it.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}

	return strings.TrimPrefix(resolved, `\\?\`), nil
}
