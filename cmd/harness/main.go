package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cephqe/harness/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "harness",
	Short: "Harness - remote-execution driver for ceph test clusters",
	Long: `Harness drives end-to-end and scale tests against real ceph clusters:
it models a cluster as a set of role-tagged nodes, maintains resilient
SSH sessions to each of them, and routes commands to the right place,
including into containerized daemons.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("json-logs")
		log.Init(log.Config{
			Level:      log.Level(level),
			JSONOutput: jsonOut,
			Output:     os.Stderr,
		})
	},
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Harness version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit JSON logs instead of console output")

	// Add subcommands
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(metricsCmd)
}
