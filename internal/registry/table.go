package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one row of the registry table: where a module's configuration
// lives, whether it is enabled, plus arbitrary operator metadata.
type Entry struct {
	ConfigPath string                 `yaml:"config_path,omitempty"`
	Enabled    *bool                  `yaml:"enabled,omitempty"`
	Metadata   map[string]interface{} `yaml:",inline"`
}

// IsEnabled reports whether the module may be listed as available. An
// absent flag means enabled.
func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// tableFile is the on-disk shape of the registry table.
type tableFile struct {
	Modules map[string]Entry `yaml:"modules"`
}

// LoadEntries reads a registry table from a YAML file:
//
//	modules:
//	  data_pipeline:
//	    config_path: configs/data_pipeline.yaml
//	    enabled: true
//	    owner: planning-team
func LoadEntries(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry table %s: %w", path, err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry table %s: %w", path, err)
	}

	if file.Modules == nil {
		file.Modules = make(map[string]Entry)
	}

	return file.Modules, nil
}
