package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cmakekit/cmakekit/pkg/config"
)

func TestLoadSettings_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cmakekit.config.json")

	content := `{
		"sourceDir": ".",
		"buildDir": "build",
		"outputDir": "bin",
		"preset": "default",
		"defines": [
			{"name": "CMAKE_BUILD_TYPE", "value": "Release"},
			{"name": "CMAKE_EXPORT_COMPILE_COMMANDS", "value": "ON"}
		],
		"args": ["-Wno-dev"]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	manager := config.NewManager()
	settings, err := manager.LoadSettings(path)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	if settings.Preset != "default" {
		t.Errorf("expected preset 'default', got %q", settings.Preset)
	}
	if settings.OutputDir != "bin" {
		t.Errorf("expected output dir 'bin', got %q", settings.OutputDir)
	}
	if len(settings.Defines) != 2 {
		t.Fatalf("expected 2 defines, got %d", len(settings.Defines))
	}
	if settings.Defines[0].Name != "CMAKE_BUILD_TYPE" {
		t.Errorf("define order not preserved: %v", settings.Defines)
	}
}

func TestLoadSettings_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cmakekit.config.yaml")

	content := `
sourceDir: .
buildDir: out/build
preset: release
defines:
  - name: CMAKE_BUILD_TYPE
    value: Release
args:
  - --log-level=WARNING
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	manager := config.NewManager()
	settings, err := manager.LoadSettings(path)
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	if settings.BuildDir != "out/build" {
		t.Errorf("expected build dir 'out/build', got %q", settings.BuildDir)
	}
	if len(settings.Args) != 1 || settings.Args[0] != "--log-level=WARNING" {
		t.Errorf("unexpected args: %v", settings.Args)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not JSON or YAML",
			content: "{{{{",
		},
		{
			name:    "define without name",
			content: `{"defines": [{"value": "Release"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "cmakekit.config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write settings: %v", err)
			}

			if _, err := config.NewManager().LoadSettings(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := config.NewManager().LoadSettings(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}
