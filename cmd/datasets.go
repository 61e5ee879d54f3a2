package cmd

import (
	"fmt"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"
	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/utils"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List datasets held in the store",
	Long:  `Show every dataset currently persisted in the dataset store, sorted by name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("failed to open dataset store: %w", err)
		}
		defer closeStore(st)

		infos, err := st.List()
		if err != nil {
			return fmt.Errorf("failed to list datasets: %w", err)
		}

		if len(infos) == 0 {
			fmt.Println("Dataset store is empty.")
			return nil
		}

		fmt.Printf("Datasets (%d):\n", len(infos))
		for _, info := range infos {
			fmt.Printf("  %s  %s  %d bytes\n",
				utils.Highlight(info.Name),
				info.UpdatedAt.Format("2006-01-02 15:04:05"),
				info.Bytes)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
