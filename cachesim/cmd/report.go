package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
)

var reportFlags = struct {
	dbPath string
}{}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the statistics recorded by earlier runs",
	RunE: func(_ *cobra.Command, _ []string) error {
		return reportRuns()
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFlags.dbPath, "db", "",
		"SQLite database recorded by a run (env CACHESIM_DB)")
}

func reportRuns() error {
	dbPath := flagOrEnv(reportFlags.dbPath, "CACHESIM_DB")
	if dbPath == "" {
		return fmt.Errorf("no database given, use --db or CACHESIM_DB")
	}

	reader := datarecording.NewReader(dbPath)
	defer reader.Close()

	reader.MapTable("runs", runEntry{})
	reader.MapTable("cache_stats", statsEntry{})

	runs, err := reader.Query("runs")
	if err != nil {
		return err
	}

	stats, err := reader.Query("cache_stats")
	if err != nil {
		return err
	}

	for _, r := range runs {
		run := r.(runEntry)

		fmt.Printf("Run %s: %s, %d records (%d loads, %d stores)\n",
			run.RunID, run.Trace, run.Records, run.Loads, run.Stores)

		for _, s := range stats {
			stat := s.(statsEntry)
			if stat.RunID != run.RunID {
				continue
			}

			hitRate := 0.0
			if stat.Accesses > 0 {
				hitRate = 100 * float64(stat.Hits) / float64(stat.Accesses)
			}

			fmt.Printf("  %-8s %-5s  hits %12d  misses %12d  "+
				"accesses %12d  %6.2f%%\n",
				stat.Cache, stat.Type, stat.Hits, stat.Misses,
				stat.Accesses, hitRate)
		}

		fmt.Println()
	}

	return nil
}
