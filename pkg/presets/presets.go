// Package presets handles loading and lookup of CMake configure presets
package presets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the well-known presets file name CMake looks for in a
// source directory.
const FileName = "CMakePresets.json"

// Preset represents one entry in the configurePresets array of a
// CMakePresets.json file. Hidden presets act as bases for other presets
// and are not directly selectable.
type Preset struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// Catalog holds the configure presets parsed from a CMakePresets.json file.
// Unknown top-level fields (version, cmakeMinimumRequired, buildPresets, ...)
// are ignored for forward compatibility.
type Catalog struct {
	ConfigurePresets []Preset `json:"configurePresets"`
}

// Load reads and parses a CMakePresets.json file. The path may name either
// the file itself or a directory containing it.
func Load(path string) (*Catalog, error) {
	if filepath.Base(path) != FileName {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &catalog, nil
}

// Lookup finds a non-hidden preset by name. It scans in file order and
// returns the first match, so a duplicate name later in the file is never
// seen. A hidden preset with the requested name is treated as absent.
func (c *Catalog) Lookup(name string) (Preset, bool) {
	for _, p := range c.ConfigurePresets {
		if p.Name == name && !p.Hidden {
			return p, true
		}
	}
	return Preset{}, false
}

// Presets returns the presets in file order, including hidden ones.
func (c *Catalog) Presets() []Preset {
	return c.ConfigurePresets
}
