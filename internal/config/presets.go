package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/framecut/framecut/internal/preset"
)

// presetFile is the YAML shape of a site-specific classification table.
type presetFile struct {
	Presets []preset.Entry `yaml:"presets"`
}

// LoadPresetTable reads a classification preset table from a YAML file. An
// empty path returns the builtin table. Entries in the file replace builtin
// entries with the same classification.
func LoadPresetTable(path string) (*preset.Table, error) {
	if path == "" {
		return preset.BuiltinTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset table: %w", err)
	}
	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse preset table %s: %w", path, err)
	}

	entries := append(preset.BuiltinTable().Entries(), pf.Presets...)
	return preset.NewTable(entries), nil
}

// SavePresetTable writes a classification table as YAML, for bootstrapping a
// site-specific override file.
func SavePresetTable(path string, t *preset.Table) error {
	data, err := yaml.Marshal(presetFile{Presets: t.Entries()})
	if err != nil {
		return fmt.Errorf("encode preset table: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
