package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"

	"github.com/spf13/cobra"
)

var continueOnFailure bool

var chainCmd = &cobra.Command{
	Use:   "chain <workflow> [workflow...]",
	Short: "Run several workflows in sequence",
	Long: `Execute multiple workflows in order. Each workflow keeps its own
module cache, so a chain can layer reporting workflows on top of an
ingestion workflow without repeating completed steps. By default the
chain stops at the first failed workflow.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		results, err := rt.orchestrator.ExecuteChain(cmd.Context(), args, !continueOnFailure)
		if err != nil {
			return fmt.Errorf("chain execution failed: %w", err)
		}

		failed := 0
		seen := make(map[string]bool)
		for _, name := range args {
			result, ok := results[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true

			writeSummary(result)
			if result.Failed() {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d workflows failed", failed, len(results))
		}

		utils.LogInfo("Chain completed successfully")
		return nil
	},
}

func init() {
	chainCmd.Flags().BoolVar(&continueOnFailure, "continue-on-failure", false,
		"Keep running later workflows after one fails")
	rootCmd.AddCommand(chainCmd)
}
