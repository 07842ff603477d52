package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/higuaro/stackwatch/config"
)

// validateCmd validates a config file without starting the watcher.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a stackwatch configuration file without starting the watcher.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  stackwatch validate -c config.yaml
  stackwatch validate --config /etc/stackwatch/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	queried := len(cfg.Tags)
	ignored := 0
	if queried > 10 {
		ignored = queried - 10
		queried = 10
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Site:          %s\n", cfg.Site)
	fmt.Printf("  Poll interval: %d minute(s)\n", cfg.PollMinutes)
	fmt.Printf("  Tags:          %d queried", queried)
	if ignored > 0 {
		fmt.Printf(" (+%d beyond the API cap, ignored)", ignored)
	}
	fmt.Printf("\n")

	return nil
}
