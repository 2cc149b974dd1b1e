package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"foreman/internal/debuglog"
	"foreman/internal/executor"
	"foreman/internal/gen"
	"foreman/internal/modstate"
	"foreman/internal/project"
	"foreman/internal/registry"
	"foreman/internal/state"
	"foreman/pkg/models"
)

var (
	runContinueOnFailure bool
	runMaxConcurrency    int
)

var runCmd = &cobra.Command{
	Use:   "run <project.yaml>",
	Short: "Execute a project's modules",
	Long: `Execute a project definition: resolve module dependencies, spawn
role-specialized agents, and run each module's task plan with bounded
concurrency. Modules in the same phase run in parallel.

Module state and task outcomes persist to .foreman/state.db, so
'foreman status' can inspect the run afterwards.

Examples:
  foreman run project.yaml
  foreman run --continue-on-failure project.yaml
  foreman run --max-concurrency 4 project.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runContinueOnFailure, "continue-on-failure", false, "Keep running later phases after a module fails")
	runCmd.Flags().IntVar(&runMaxConcurrency, "max-concurrency", 0, "Override max concurrent tasks per module (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	def, err := project.Load(args[0])
	if err != nil {
		return err
	}

	projectRoot, err := filepath.Abs(filepath.Dir(args[0]))
	if err != nil {
		return err
	}

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		return err
	}

	client, err := gen.NewClient(gen.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.AWS.UseBedrock,
		AWSRegion:     cfg.AWS.Region,
		AWSProfile:    cfg.AWS.Profile,
	})
	if err != nil {
		return err
	}

	db, err := state.OpenProject(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	logger := debuglog.NewForProject(projectRoot)
	defer logger.Close()
	debuglog.SetPackageLogger(logger)
	defer debuglog.SetPackageLogger(nil)

	maxConcurrency := cfg.Execution.MaxConcurrentTasks
	if runMaxConcurrency > 0 {
		maxConcurrency = runMaxConcurrency
	}

	mgr := modstate.NewManager(modstate.WithStore(db), modstate.WithLogger(logger))
	exec := executor.New(client,
		executor.WithMaxConcurrency(maxConcurrency),
		executor.WithLogger(logger),
		executor.WithEvents(printEvent),
	)
	runner := executor.NewProjectRunner(exec, mgr, reg)
	runner.ContinueOnFailure = runContinueOnFailure || cfg.Execution.ContinueOnFailure

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	modules := def.ModuleSet()
	run := &state.Run{
		ID:           uuid.New().String(),
		StartedAt:    time.Now(),
		ModulesTotal: len(modules),
		Status:       state.RunActive,
	}
	if err := db.CreateRun(run); err != nil {
		logger.Log("run row not recorded: %v", err)
	}

	fmt.Printf("Running %s: %d modules\n\n", color.New(color.Bold).Sprint(def.Name), len(modules))
	result, runErr := runner.Run(ctx, modules)

	finished := time.Now()
	run.FinishedAt = &finished
	if result != nil {
		run.Phases = result.Phases
		run.ModulesFailed = len(result.Failed)
	}
	switch {
	case ctx.Err() != nil:
		run.Status = state.RunCancelled
	case runErr != nil || (result != nil && len(result.Failed) > 0):
		run.Status = state.RunFailed
	default:
		run.Status = state.RunCompleted
	}
	if err := db.FinishRun(run); err != nil {
		logger.Log("run row not finished: %v", err)
	}

	persistTasks(db, logger, result)
	printRunSummary(mgr, result, client)

	return runErr
}

// persistTasks saves every task outcome from the run.
func persistTasks(db *state.DB, logger *debuglog.Logger, result *executor.ProjectResult) {
	if result == nil {
		return
	}
	for name, planResult := range result.Modules {
		for _, tr := range planResult.Results {
			task := taskFromResult(name, tr)
			if err := db.SaveTask(task); err != nil {
				logger.Log("task %s not persisted: %v", tr.TaskID, err)
			}
		}
	}
}

// taskFromResult converts an executor task result to the persisted shape.
func taskFromResult(moduleName string, tr executor.TaskResult) *models.Task {
	now := time.Now()
	task := &models.Task{
		ID:            tr.TaskID,
		ModuleName:    moduleName,
		Category:      tr.Category,
		Status:        tr.Status,
		AssignedAgent: tr.AgentID,
		Result:        tr.Output,
		Error:         tr.Error,
		CreatedAt:     now,
	}
	if tr.Status.Terminal() {
		task.CompletedAt = &now
	}
	return task
}

// printRunSummary renders the final state of all modules and token usage.
func printRunSummary(mgr *modstate.Manager, result *executor.ProjectResult, client *gen.Client) {
	if result == nil {
		return
	}

	summary := mgr.Summary()
	fmt.Printf("\nRun finished in %s: %d/%d modules completed",
		result.Duration.Round(time.Millisecond),
		summary.StatusCounts["completed"], summary.TotalModules)
	if len(result.Failed) > 0 {
		fmt.Printf(", %s", color.RedString("%d failed", len(result.Failed)))
	}
	fmt.Printf(" (%.0f%% overall progress)\n", summary.OverallProgress)

	input, output := client.Tracker().Total()
	if calls := client.Tracker().Calls(); calls > 0 {
		fmt.Printf("Tokens: %d in / %d out across %d calls\n", input, output, calls)
	}
}

func printEvent(ev executor.Event) {
	switch ev.Type {
	case executor.EventModuleStarted:
		fmt.Printf("%s module %s started\n", color.CyanString("▶"), ev.ModuleName)
	case executor.EventModuleCompleted:
		fmt.Printf("%s module %s completed\n", color.GreenString("✓"), ev.ModuleName)
	case executor.EventModuleFailed:
		fmt.Printf("%s module %s failed: %s\n", color.RedString("✗"), ev.ModuleName, ev.Message)
	case executor.EventTaskCompleted:
		fmt.Printf("  %s %s\n", color.GreenString("✓"), ev.TaskID)
	case executor.EventTaskFailed:
		fmt.Printf("  %s %s: %v\n", color.RedString("✗"), ev.TaskID, ev.Err)
	case executor.EventTaskBlocked:
		fmt.Printf("  %s %s blocked\n", color.YellowString("⚠"), ev.TaskID)
	case executor.EventPhaseCompleted:
		fmt.Printf("%s %s\n", color.CyanString("—"), ev.Message)
	}
}
