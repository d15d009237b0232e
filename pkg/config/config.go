// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefineSetting is one cache variable override declared in the settings
// file. Entries are an ordered array, not a map, so the generated command
// line stays reproducible.
type DefineSetting struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Settings holds project-level defaults for a cmake invocation. Flags
// passed on the command line take precedence over these values.
type Settings struct {
	SourceDir string          `json:"sourceDir" yaml:"sourceDir"`
	BuildDir  string          `json:"buildDir" yaml:"buildDir"`
	OutputDir string          `json:"outputDir" yaml:"outputDir"`
	Preset    string          `json:"preset" yaml:"preset"`
	Defines   []DefineSetting `json:"defines" yaml:"defines"`
	Args      []string        `json:"args" yaml:"args"`
}

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadSettings loads settings from a file, accepting JSON or YAML.
func (m *Manager) LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings

	// Try JSON first
	if err := json.Unmarshal(data, &settings); err == nil {
		return m.validateSettings(&settings)
	}

	// Fall back to YAML
	if err := yaml.Unmarshal(data, &settings); err == nil {
		return m.validateSettings(&settings)
	}

	return nil, fmt.Errorf("failed to parse settings as JSON or YAML")
}

func (m *Manager) validateSettings(settings *Settings) (*Settings, error) {
	for n, d := range settings.Defines {
		if d.Name == "" {
			return nil, fmt.Errorf("define %d: name is required", n)
		}
	}
	return settings, nil
}
