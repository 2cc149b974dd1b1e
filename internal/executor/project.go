package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foreman/internal/modstate"
	"foreman/internal/registry"
	"foreman/internal/taskplan"
	"foreman/pkg/models"
)

// ProjectResult aggregates a whole-project run.
type ProjectResult struct {
	// Modules maps module name to its plan result. Modules never reached
	// because an earlier phase failed are absent.
	Modules map[string]*PlanResult
	// Failed lists modules whose plan did not complete.
	Failed []string
	// Phases is the number of phases that ran.
	Phases int
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// ProjectRunner executes a registered module set phase by phase. Modules
// within a phase run concurrently; the runner awaits a full phase before
// starting the next.
type ProjectRunner struct {
	exec *Executor
	mgr  *modstate.Manager
	reg  *registry.Registry

	// ContinueOnFailure keeps later phases running after a module fails.
	// Off by default: a failed module fails the run once its phase ends.
	ContinueOnFailure bool
}

// NewProjectRunner creates a runner over an executor, a module state
// manager, and the capability registry used to spawn agents.
func NewProjectRunner(exec *Executor, mgr *modstate.Manager, reg *registry.Registry) *ProjectRunner {
	return &ProjectRunner{exec: exec, mgr: mgr, reg: reg}
}

// Run registers the module set and executes it to completion or first
// failed phase. The partial result is returned alongside the error.
func (r *ProjectRunner) Run(ctx context.Context, modules map[string]*models.Module) (*ProjectResult, error) {
	start := time.Now()

	plan, err := r.mgr.Register(modules)
	if err != nil {
		return nil, err
	}

	result := &ProjectResult{Modules: make(map[string]*PlanResult, len(modules))}

	for i, phase := range plan.Phases {
		if ctx.Err() != nil {
			r.cancelUnfinished(modules, result)
			result.Duration = time.Since(start)
			return result, ctx.Err()
		}

		r.runPhase(ctx, phase, modules, result)
		result.Phases = i + 1
		r.exec.event(Event{Type: EventPhaseCompleted, Message: fmt.Sprintf("phase %d of %d", i+1, len(plan.Phases))})

		if len(result.Failed) > 0 && !r.ContinueOnFailure {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("executor: phase %d ended with failed modules %v", i+1, result.Failed)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// runPhase executes one phase's modules concurrently and records their
// outcomes in the manager.
func (r *ProjectRunner) runPhase(ctx context.Context, phase []string, modules map[string]*models.Module, result *ProjectResult) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, name := range phase {
		mod, ok := modules[name]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(name string, mod *models.Module) {
			defer wg.Done()

			planResult := r.runModule(ctx, name, mod)

			mu.Lock()
			result.Modules[name] = planResult
			if !planResult.Completed() {
				result.Failed = append(result.Failed, name)
			}
			mu.Unlock()
		}(name, mod)
	}
	wg.Wait()
}

// runModule spawns agents, builds the task plan, runs it, and folds the
// outcome back into the module state machine.
func (r *ProjectRunner) runModule(ctx context.Context, name string, mod *models.Module) *PlanResult {
	agents := taskplan.SpawnForModule(mod, r.reg)
	tasks := taskplan.Build(mod, agents)

	agentIDs := make([]string, len(agents))
	for i, a := range agents {
		agentIDs[i] = a.ID
	}
	if err := r.mgr.Start(name, agentIDs); err != nil {
		// Cycle-broken modules sit in planned with blockers recorded;
		// their plan still runs so the partial result is observable.
		r.exec.logger.Log("module %s not started through state machine: %v", name, err)
	}

	planResult := r.exec.RunPlan(ctx, name, tasks, agents)

	if planResult.Completed() {
		r.mgr.UpdateProgress(name, 100)
	} else if ctx.Err() != nil {
		r.mgr.Cancel(name)
	} else {
		r.mgr.Fail(name, fmt.Sprintf("%d of %d tasks did not complete",
			len(tasks)-completedCount(planResult), len(tasks)))
	}
	return planResult
}

// cancelUnfinished cancels every module that has no recorded result.
func (r *ProjectRunner) cancelUnfinished(modules map[string]*models.Module, result *ProjectResult) {
	for name := range modules {
		if _, ran := result.Modules[name]; !ran {
			r.mgr.Cancel(name)
		}
	}
}

func completedCount(res *PlanResult) int {
	n := 0
	for _, tr := range res.Results {
		if tr.Status == models.TaskStatusCompleted {
			n++
		}
	}
	return n
}
