package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered workflows and available modules",
	Long:  `Show every workflow found in the workflows directory and every module this build offers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		names := rt.orchestrator.ListWorkflows()
		if len(names) == 0 {
			fmt.Printf("No workflows found in %s\n", cfg.WorkflowsDir)
		} else {
			fmt.Printf("Workflows (%d):\n", len(names))
			for _, name := range names {
				def, err := rt.orchestrator.Definition(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %s  %d module(s)\n", utils.Highlight(name), len(def.Modules))
				if def.Description != "" {
					fmt.Printf("    %s\n", def.Description)
				}
			}
		}

		if rejected := rt.orchestrator.Rejected(); len(rejected) > 0 {
			fmt.Printf("\nRejected definitions (%d):\n", len(rejected))
			for _, defErr := range rejected {
				fmt.Printf("  %s\n", utils.Warning(defErr.Error()))
			}
		}

		moduleNames := rt.registry.ListNames(true)
		fmt.Printf("\nModules (%d):\n", len(moduleNames))
		for _, name := range moduleNames {
			fmt.Printf("  %s\n", name)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
