package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/modules"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/validator"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check the configured paths, the dataset store, the registry table, and every workflow definition.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		utils.LogSuccess("Configuration: OK")

		if err := validator.ValidatePaths(cfg); err != nil {
			return fmt.Errorf("path validation failed: %w", err)
		}
		utils.LogSuccess("Paths: OK")

		if err := validator.ValidateStore(cfg); err != nil {
			return fmt.Errorf("dataset store validation failed: %w", err)
		}
		utils.LogSuccess("Dataset store: OK")

		if err := validator.ValidateRegistry(cfg, modules.BuiltinCatalog(nil)); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		utils.LogSuccess("Registry table: OK")

		rt, err := newRuntime()
		if err != nil {
			return fmt.Errorf("workflow discovery failed: %w", err)
		}
		defer rt.Close()

		names := rt.orchestrator.ListWorkflows()
		rejected := rt.orchestrator.Rejected()
		for _, defErr := range rejected {
			utils.LogWarning("%v", defErr)
		}
		if len(rejected) > 0 {
			return fmt.Errorf("%d workflow definition(s) rejected", len(rejected))
		}
		utils.LogSuccess("Workflow definitions: %d valid", len(names))

		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
