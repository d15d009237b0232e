package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmakekit/cmakekit/pkg/utils"
)

func TestEnsureDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")

	if err := utils.EnsureDirectory(nested); err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}
	if !utils.DirectoryExists(nested) {
		t.Fatal("directory was not created")
	}

	// Second call on the existing directory must succeed
	if err := utils.EnsureDirectory(nested); err != nil {
		t.Errorf("EnsureDirectory on existing directory failed: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if !utils.FileExists(file) {
		t.Error("expected FileExists to report true for a file")
	}
	if utils.FileExists(tmpDir) {
		t.Error("expected FileExists to report false for a directory")
	}
	if utils.FileExists(filepath.Join(tmpDir, "missing")) {
		t.Error("expected FileExists to report false for a missing path")
	}
}

func TestCanonicalPath(t *testing.T) {
	tmpDir := t.TempDir()

	canonical, err := utils.CanonicalPath(tmpDir)
	if err != nil {
		t.Fatalf("CanonicalPath failed: %v", err)
	}
	if !filepath.IsAbs(canonical) {
		t.Errorf("expected absolute path, got %q", canonical)
	}
	if strings.HasPrefix(canonical, `\\?\`) {
		t.Errorf("extended-length prefix not stripped: %q", canonical)
	}
}

func TestCanonicalPath_MissingPath(t *testing.T) {
	if _, err := utils.CanonicalPath(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent path")
	}
}
