package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ThuyHaLE/OptiMoldIQ-sub004/internal/store"

	"github.com/spf13/cobra"
)

var (
	summariesDir   string
	keepLatest     int
	olderThanDays  int
	cleanupDryRun  bool
	pruneStoreFlag bool
)

// summaryFile pairs a run summary with its modification time for age
// based cleanup.
type summaryFile struct {
	name    string
	modTime time.Time
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Clean up old run summaries and stale datasets",
	Long:  `Remove old run summary files based on age or count, and optionally prune stale datasets from the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := summariesDir
		if dir == "" {
			dir = cfg.SummaryDir
		}
		if dir == "" {
			return fmt.Errorf("summary directory is required")
		}

		if pruneStoreFlag && olderThanDays <= 0 {
			return fmt.Errorf("--older-than is required with --prune-store")
		}

		// Check if the summary directory exists
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("summary directory %s does not exist", dir)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read summary directory: %w", err)
		}

		// Filter for run summary files
		var summaries []summaryFile
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".summary.yaml") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				fmt.Printf("Skipping %s: %v\n", entry.Name(), err)
				continue
			}
			summaries = append(summaries, summaryFile{name: entry.Name(), modTime: info.ModTime()})
		}

		if len(summaries) == 0 {
			fmt.Println("No run summaries found.")
		} else {
			// Sort summaries by modification time (newest last)
			sort.Slice(summaries, func(i, j int) bool {
				return summaries[i].modTime.Before(summaries[j].modTime)
			})

			// Determine which summaries to delete
			var toDelete []string

			// If keep-latest is specified
			if keepLatest > 0 && len(summaries) > keepLatest {
				for _, s := range summaries[:len(summaries)-keepLatest] {
					toDelete = append(toDelete, s.name)
				}
			}

			// If older-than is specified
			if olderThanDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -olderThanDays)
				for _, s := range summaries {
					if s.modTime.Before(cutoff) && !contains(toDelete, s.name) {
						toDelete = append(toDelete, s.name)
					}
				}
			}

			if len(toDelete) == 0 {
				fmt.Println("No summaries to delete.")
			} else {
				fmt.Printf("Found %d summaries to delete:\n", len(toDelete))
				for _, name := range toDelete {
					fmt.Printf("- %s\n", name)
				}

				if cleanupDryRun {
					fmt.Println("Dry run - no summaries were deleted.")
				} else {
					for _, name := range toDelete {
						fullPath := filepath.Join(dir, name)
						if err := os.Remove(fullPath); err != nil {
							fmt.Printf("Error deleting %s: %v\n", fullPath, err)
						}
					}
					fmt.Printf("Deleted %d summaries.\n", len(toDelete))
				}
			}
		}

		if pruneStoreFlag {
			if cleanupDryRun {
				fmt.Println("Dry run - datasets were not pruned.")
				return nil
			}

			st, err := store.Open(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("failed to open dataset store: %w", err)
			}
			defer closeStore(st)

			cutoff := time.Now().AddDate(0, 0, -olderThanDays)
			pruned, err := st.PruneOlderThan(cutoff)
			if err != nil {
				return fmt.Errorf("failed to prune datasets: %w", err)
			}
			fmt.Printf("Pruned %d stale dataset(s) from the store.\n", pruned)
		}

		fmt.Println("Cleanup completed.")
		return nil
	},
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func init() {
	cleanupCmd.Flags().StringVarP(&summariesDir, "dir", "d", "", "Summary directory to clean up (default: configured summary_dir)")
	cleanupCmd.Flags().IntVarP(&keepLatest, "keep-latest", "k", 0, "Keep this many latest summaries")
	cleanupCmd.Flags().IntVarP(&olderThanDays, "older-than", "o", 0, "Delete summaries older than this many days")
	cleanupCmd.Flags().BoolVarP(&cleanupDryRun, "dry-run", "n", false, "Show what would be deleted without actually deleting")
	cleanupCmd.Flags().BoolVar(&pruneStoreFlag, "prune-store", false, "Also prune datasets older than --older-than from the store")

	rootCmd.AddCommand(cleanupCmd)
}
