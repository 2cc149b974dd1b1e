package main

import (
	"os"

	"github.com/spf13/cobra"

	"foreman/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "foreman",
	Short: "Project scheduler and agent router",
	Long: `Foreman plans projects as dependency-ordered modules, routes tasks to
the cheapest capable model, and executes module task plans concurrently.

Core capabilities:
- Resolves module dependencies into parallel execution phases
- Classifies task descriptions by category and complexity
- Routes each task to a model by cost/quality trade-off
- Spawns role-specialized agents and runs task plans in rounds
- Tracks module state and persists progress across runs`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: XDG config + .foreman.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
