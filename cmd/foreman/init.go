package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foreman/internal/state"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a foreman project",
	Long: `Initialize a directory for use with foreman.

This command sets up everything needed to run foreman:
  - Creates the .foreman directory structure
  - Initializes the project state database
  - Creates a .foreman.yaml configuration template
  - Creates an example project definition

The directory argument is optional and defaults to the current directory.

Examples:
  foreman init              # Initialize current directory
  foreman init ./myproject  # Initialize specific directory
  foreman init --force      # Reinitialize even if already set up`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing foreman in %s...\n\n", absPath)

	foremanDir := filepath.Join(absPath, ".foreman")
	if _, err := os.Stat(foremanDir); err == nil && !initForce {
		fmt.Printf("Directory already initialized. Use --force to reinitialize.\n")
		return nil
	}

	if err := os.MkdirAll(foremanDir, 0755); err != nil {
		return fmt.Errorf("creating .foreman directory: %w", err)
	}
	logsDir := filepath.Join(foremanDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating .foreman/logs directory: %w", err)
	}
	printStatus("✓", "Created .foreman directory structure", color.FgGreen)

	db, err := state.OpenProject(absPath)
	if err != nil {
		printStatus("✗", "State database could not be created", color.FgRed)
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state database: %w", err)
	}
	printStatus("✓", "Initialized state database", color.FgGreen)

	if err := createProjectConfig(absPath); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("✓", "Created .foreman.yaml template", color.FgGreen)

	if err := createExampleProject(absPath); err != nil {
		return fmt.Errorf("creating example project: %w", err)
	}
	printStatus("✓", "Created project.yaml example", color.FgGreen)

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	fmt.Printf("\n%s Foreman initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	if apiKey == "" {
		fmt.Println("  1. Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println()
	}
	fmt.Println("  2. Edit project.yaml to describe your modules, then:")
	fmt.Println("     foreman plan project.yaml")
	fmt.Println("     foreman run project.yaml")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     foreman --help")

	return nil
}

// createProjectConfig creates a .foreman.yaml template if none exists.
func createProjectConfig(repoPath string) error {
	configFile := filepath.Join(repoPath, ".foreman.yaml")
	if _, err := os.Stat(configFile); err == nil {
		return nil
	}

	template := `# Foreman Project Configuration
# This file overrides defaults from ~/.config/foreman/config.yaml

# anthropic:
#   api_key: ${ANTHROPIC_API_KEY}
#   model: claude-3-5-sonnet

# aws:
#   use_bedrock: false
#   region: us-west-2

# execution:
#   max_concurrent_tasks: 10
#   continue_on_failure: false

# routing:
#   budget_preference: balanced

# registry:
#   path: agents.yaml
`

	return os.WriteFile(configFile, []byte(template), 0644)
}

// createExampleProject creates a project.yaml example if none exists.
func createExampleProject(repoPath string) error {
	projectFile := filepath.Join(repoPath, "project.yaml")
	if _, err := os.Stat(projectFile); err == nil {
		return nil
	}

	template := `# Foreman project definition
name: example
description: A small service with a web frontend
modules:
  - name: auth
    type: backend
    description: authentication and session service
    complexity: 5
  - name: api
    type: backend
    description: REST API over the domain model
    depends_on: [auth]
    complexity: 6
  - name: web
    type: frontend
    description: user-facing web application
    depends_on: [api]
    complexity: 4
`

	return os.WriteFile(projectFile, []byte(template), 0644)
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
