package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foreman/internal/project"
	"foreman/internal/registry"
	"foreman/internal/resolve"
	"foreman/internal/router"
	"foreman/pkg/models"
)

var planRecommend bool

var planCmd = &cobra.Command{
	Use:   "plan <project.yaml>",
	Short: "Resolve a project into execution phases",
	Long: `Resolve a project definition into dependency-ordered execution phases.

Shows:
  - Phases of modules that can run in parallel
  - The critical path through the dependency graph
  - Modules blocked by circular dependencies
  - Optional per-module model recommendations (--recommend)`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planRecommend, "recommend", false, "Show model recommendations per module")
}

func runPlan(cmd *cobra.Command, args []string) error {
	def, err := project.Load(args[0])
	if err != nil {
		return err
	}

	modules := def.ModuleSet()
	if problems := resolve.Validate(modules); len(problems) > 0 {
		fmt.Println(color.YellowString("Plan warnings:"))
		for _, p := range problems {
			fmt.Printf("  %s %s\n", color.YellowString("⚠"), p)
		}
		fmt.Println()
	}

	plan, err := resolve.Resolve(modules)
	if err != nil {
		return err
	}

	fmt.Printf("Project: %s (%d modules, %d phases)\n\n", color.New(color.Bold).Sprint(def.Name), len(modules), len(plan.Phases))

	for i, phase := range plan.Phases {
		fmt.Printf("Phase %d:\n", i+1)
		for _, name := range phase {
			marker := " "
			if plan.OnCriticalPath(name) {
				marker = color.RedString("*")
			}
			mod := modules[name]
			fmt.Printf("  %s %-20s %s\n", marker, name, mod.Type)
		}
	}

	if len(plan.CriticalPath) > 0 {
		fmt.Printf("\nCritical path (%s): %s\n", color.RedString("*"), strings.Join(plan.CriticalPath, " ← "))
	}

	if len(plan.Blocked) > 0 {
		fmt.Println(color.RedString("\nBlocked modules (circular dependencies):"))
		for name, deps := range plan.Blocked {
			fmt.Printf("  %s waits on %s\n", name, strings.Join(deps, ", "))
		}
	}

	if planRecommend {
		return printRecommendations(def, plan)
	}
	return nil
}

// printRecommendations shows a suggested model per planned task for every
// module, in phase order.
func printRecommendations(def *project.Definition, plan *resolve.Plan) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return err
	}
	r := router.NewWithWeights(reg, cfg.Routing.Weights)

	modules := def.ModuleSet()
	pref := models.BudgetPreference(cfg.Routing.BudgetPreference)

	fmt.Println("\nModel recommendations:")
	for _, phase := range plan.Phases {
		for _, name := range phase {
			mod, ok := modules[name]
			if !ok {
				continue
			}
			recs, err := r.RecommendForModule(mod, pref)
			if err != nil {
				return err
			}
			fmt.Printf("\n  %s:\n", color.New(color.Bold).Sprint(name))
			for _, rec := range recs {
				fmt.Printf("    %-22s → %s\n", rec.Task, rec.Model)
			}
		}
	}
	return nil
}
