// Package validator checks the planner's environment before any workflow
// runs: the configured paths, the dataset store, and the registry table.
package validator

import (
	"fmt"
	"os"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/config"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/registry"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
)

// ValidatePaths checks that every configured location is usable. The
// workflows directory must already exist; the summary directory is
// created and probed for writability.
func ValidatePaths(cfg config.Config) error {
	if err := utils.ValidateDirPath(cfg.WorkflowsDir, "workflows_dir"); err != nil {
		return err
	}
	utils.LogVerbose("✓ workflows directory %s", cfg.WorkflowsDir)

	if cfg.SummaryDir != "" {
		if err := os.MkdirAll(cfg.SummaryDir, 0755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
		probe, err := os.CreateTemp(cfg.SummaryDir, ".probe-*")
		if err != nil {
			return fmt.Errorf("summary directory %s is not writable: %w", cfg.SummaryDir, err)
		}
		name := probe.Name()
		if err := probe.Close(); err != nil {
			utils.LogWarning("Failed to close probe file: %v", err)
		}
		if err := os.Remove(name); err != nil {
			utils.LogWarning("Failed to remove probe file %s: %v", name, err)
		}
		utils.LogVerbose("✓ summary directory %s is writable", cfg.SummaryDir)
	}

	return nil
}

// ValidateStore opens the dataset store and verifies its schema by
// listing the stored datasets.
func ValidateStore(cfg config.Config) error {
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open dataset store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			utils.LogWarning("Failed to close dataset store: %v", err)
		}
	}()

	datasets, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to query dataset store: %w", err)
	}
	utils.LogVerbose("✓ dataset store %s holds %d datasets", cfg.StorePath, len(datasets))

	return nil
}

// ValidateRegistry parses the registry table when one is configured.
// Entries naming modules this build does not carry are reported but not
// fatal; a declared config path that does not exist is.
func ValidateRegistry(cfg config.Config, catalog registry.Catalog) error {
	if cfg.RegistryFile == "" {
		utils.LogVerbose("ℹ️ No registry table configured, all built-in modules available")
		return nil
	}

	entries, err := registry.LoadEntries(cfg.RegistryFile)
	if err != nil {
		return fmt.Errorf("failed to load registry table: %w", err)
	}

	disabled := 0
	for name, entry := range entries {
		if _, ok := catalog[name]; !ok {
			utils.LogWarning("Registry entry %s does not match any built-in module", name)
		}
		if !entry.IsEnabled() {
			disabled++
		}
		if entry.ConfigPath != "" {
			if _, err := os.Stat(entry.ConfigPath); err != nil {
				return fmt.Errorf("config for module %s not found: %s", name, entry.ConfigPath)
			}
		}
	}
	utils.LogVerbose("✓ registry table %s: %d entries, %d disabled", cfg.RegistryFile, len(entries), disabled)

	return nil
}
