package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foreman/internal/state"
	"foreman/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show persisted module and run state",
	Long: `Display the persisted state of the current project.

Shows:
  - Every module's last known status, progress, and blockers
  - Recent runs with phase counts and outcomes`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No project state found. Run 'foreman run <project.yaml>' first.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	modules, err := db.ListModules(nil)
	if err != nil {
		return fmt.Errorf("list modules: %w", err)
	}

	if len(modules) == 0 {
		fmt.Println("No modules recorded yet.")
	} else {
		fmt.Println("Modules:")
		for _, mod := range modules {
			fmt.Printf("  %s %-20s %-18s %5.1f%%", statusSymbol(mod.Status), mod.Name, mod.Status, mod.Progress)
			if mod.Error != "" {
				fmt.Printf("  %s", color.RedString(mod.Error))
			}
			if len(mod.Blockers) > 0 {
				fmt.Printf("  %s", color.YellowString("blocked: %v", mod.Blockers))
			}
			fmt.Println()
		}
	}

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println("\nRecent runs:")
	limit := len(runs)
	if limit > 5 {
		limit = 5
	}
	for _, run := range runs[:limit] {
		duration := ""
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		line := fmt.Sprintf("  %s  %-10s %d phases, %d/%d modules ok  %s",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Status, run.Phases,
			run.ModulesTotal-run.ModulesFailed, run.ModulesTotal, duration)
		switch run.Status {
		case state.RunFailed:
			fmt.Println(color.RedString(line))
		case state.RunCompleted:
			fmt.Println(line)
		default:
			fmt.Println(color.YellowString(line))
		}
	}

	return nil
}

func statusSymbol(status models.ModuleStatus) string {
	switch status {
	case models.ModuleStatusCompleted:
		return color.GreenString("✓")
	case models.ModuleStatusFailed:
		return color.RedString("✗")
	case models.ModuleStatusInProgress, models.ModuleStatusReady:
		return color.CyanString("▶")
	case models.ModuleStatusWaitingDependency, models.ModuleStatusPaused:
		return color.YellowString("⚠")
	default:
		return " "
	}
}
