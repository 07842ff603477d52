// Package main is the entry point for the stackwatch CLI.
//
// Stackwatch can be used either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	stackwatch watch -c config.yaml      # Watch for new questions
//	stackwatch validate -c config.yaml   # Validate configuration
//	stackwatch version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "stackwatch",
	Short: "A Stack Exchange new-question watcher",
	Long: `Stackwatch polls the Stack Exchange API for newly created questions
matching a set of tags and reports them, optionally as desktop
notifications.

Quick start:
  1. Create a config file (stackwatch.yaml)
  2. Run: stackwatch watch -c stackwatch.yaml

Example config:
  site: stackoverflow
  tags: [go, rust]
  poll_minutes: 5
  notify:
    enabled: true`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this stackwatch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stackwatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
