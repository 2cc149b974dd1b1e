package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foreman/internal/registry"
	"foreman/internal/router"
	"foreman/pkg/models"
)

var (
	routePreference string
	routeTokens     int
)

var routeCmd = &cobra.Command{
	Use:   "route <task description>",
	Short: "Route a task description to a model",
	Long: `Classify a task description and select the best model for it.

Shows the detected category and complexity, the selected model with its
reasoning, and a cost estimate for the expected token volume.

Examples:
  foreman route "implement a REST API for user accounts"
  foreman route --preference quality_first "mission critical payment flow"
  foreman route --tokens 5000 "write unit tests for the parser"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routePreference, "preference", "", "Budget preference: cost_optimized, balanced, quality_first")
	routeCmd.Flags().IntVar(&routeTokens, "tokens", 2000, "Estimated token volume for the cost estimate")
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pref := models.BudgetPreference(cfg.Routing.BudgetPreference)
	if routePreference != "" {
		pref = models.BudgetPreference(routePreference)
	}
	if !pref.Valid() {
		return fmt.Errorf("unknown budget preference %q", pref)
	}

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return err
	}
	r := router.NewWithWeights(reg, cfg.Routing.Weights)

	description := strings.Join(args, " ")
	sel, err := r.Select(description, pref)
	if err != nil {
		return err
	}

	fmt.Printf("Category:   %s\n", sel.Category)
	fmt.Printf("Complexity: %s\n", sel.Complexity)
	fmt.Printf("Model:      %s (expected quality %.2f)\n", color.New(color.Bold).Sprint(sel.Model), sel.Quality)
	fmt.Printf("Reasoning:  %s\n", sel.Reasoning)

	est, err := r.EstimateCost(sel.Model, routeTokens)
	if err != nil {
		return err
	}
	if est.Local {
		fmt.Printf("Cost:       free (local model, %d token context)\n", est.ContextWindow)
	} else {
		fmt.Printf("Cost:       $%.4f for ~%d tokens\n", est.CostUSD, est.EstimatedTokens)
	}
	return nil
}
