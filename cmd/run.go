package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	runWorkflowName string
	clearCacheFlag  bool
	noSummaryFlag   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a planning workflow",
	Long: `Execute one planning workflow discovered in the workflows directory.
Module results are cached per workflow, so repeating a run reuses every
step that already completed; --clear-cache forces a fresh pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.orchestrator.Execute(cmd.Context(), runWorkflowName, clearCacheFlag)
		if err != nil {
			return fmt.Errorf("workflow execution failed: %w", err)
		}

		writeSummary(result)

		if result.Failed() {
			return fmt.Errorf("workflow %s failed at module %s (%s phase)",
				result.Workflow, result.FailedModule, result.FailedPhase)
		}

		utils.LogInfo("Workflow completed successfully")
		return nil
	},
}

// writeSummary persists the run summary unless summaries are disabled.
// Summary problems never change the run's outcome.
func writeSummary(result *workflow.RunResult) {
	if noSummaryFlag || cfg.SummaryDir == "" {
		return
	}
	path, err := result.WriteSummary(cfg.SummaryDir)
	if err != nil {
		utils.LogWarning("Failed to write run summary: %v", err)
		return
	}
	utils.LogInfo("Run summary written to %s", path)
}

func init() {
	runCmd.Flags().StringVarP(&runWorkflowName, "workflow", "w", "", "Name of the workflow to run (required)")
	runCmd.Flags().BoolVar(&clearCacheFlag, "clear-cache", false, "Drop cached module results before running")
	runCmd.Flags().BoolVar(&noSummaryFlag, "no-summary", false, "Skip writing the run summary file")
	_ = runCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(runCmd)
}
