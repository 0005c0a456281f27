// Package cmd provides the command-line interface for cachesim.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "cachesim",
	Short: "Cachesim replays memory-access traces against simulated caches.",
	Long: `Cachesim is a functional cache simulator. It replays a recorded ` +
		`memory-access trace against one or more configured cache geometries, ` +
		`classifies every access as a hit or a miss, and reports per-type ` +
		`statistics. It models presence only, not data or timing.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can provide defaults for the flags that read from
	// the environment.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
