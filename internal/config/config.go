// Package config holds the application-level configuration: where
// workflow definitions live, which registry table to load, and where
// the dataset store and run summaries are kept.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// Config is the resolved application configuration. Values come from
// the config file, MOLDIQ_* environment variables, and command-line
// flags, in increasing order of precedence.
type Config struct {
	// WorkflowsDir is scanned recursively for workflow definition files.
	WorkflowsDir string `mapstructure:"workflows_dir"`

	// RegistryFile points at an optional module registry table. When
	// empty, every built-in module is available with no default
	// configuration path.
	RegistryFile string `mapstructure:"registry_file"`

	// StorePath is the SQLite file backing the dataset store.
	StorePath string `mapstructure:"store_path"`

	// SummaryDir receives one YAML summary file per workflow run.
	SummaryDir string `mapstructure:"summary_dir"`
}

// Defaults returns the built-in configuration used when no config file
// is present.
func Defaults() Config {
	return Config{
		WorkflowsDir: "workflows",
		RegistryFile: "",
		StorePath:    filepath.Join("data", "moldiq.db"),
		SummaryDir:   filepath.Join("data", "summaries"),
	}
}

// Validate normalizes the configured paths and performs comprehensive
// validation. The workflows directory must already exist; store and
// summary locations are created on demand.
func (c *Config) Validate() error {
	for _, path := range []*string{&c.WorkflowsDir, &c.RegistryFile, &c.StorePath, &c.SummaryDir} {
		expanded, err := utils.ExpandHomeDir(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", *path, err)
		}
		*path = expanded
	}

	if c.WorkflowsDir == "" {
		return fmt.Errorf("workflows directory is required")
	}
	info, err := os.Stat(c.WorkflowsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("workflows directory does not exist: %s", c.WorkflowsDir)
		}
		return fmt.Errorf("failed to access workflows directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workflows path must be a directory, not a file: %s", c.WorkflowsDir)
	}

	if c.RegistryFile != "" {
		info, err := os.Stat(c.RegistryFile)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("registry file does not exist: %s", c.RegistryFile)
			}
			return fmt.Errorf("failed to access registry file: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("registry must be a file, not a directory: %s", c.RegistryFile)
		}
	}

	if c.StorePath == "" {
		return fmt.Errorf("store path is required")
	}
	if dir := filepath.Dir(c.StorePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if c.SummaryDir != "" {
		if err := os.MkdirAll(c.SummaryDir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# moldiq configuration.
# Every value can be overridden with a MOLDIQ_* environment variable
# (for example MOLDIQ_STORE_PATH) or a command-line flag.

# Directory scanned recursively for workflow definition files
# (*.yaml / *.yml).
workflows_dir: workflows

# Optional module registry table. Leave empty to expose every built-in
# module with step-level configuration only.
#registry_file: configs/registry.yaml

# SQLite file backing the dataset store.
store_path: data/moldiq.db

# Directory where run summaries are written, one YAML file per run.
summary_dir: data/summaries
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. The parent directory is created if needed.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	utils.LogInfo("Created default config: %s", configPath)
	return nil
}
