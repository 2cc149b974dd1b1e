// Package executor runs task plans with bounded concurrency. Execution
// proceeds in rounds: every task whose dependencies completed
// successfully launches together, the round is awaited in full, and the
// next round is computed from the results. Failed tasks never satisfy a
// dependency, so their dependents surface as blocked rather than
// silently vanishing.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foreman/internal/debuglog"
	"foreman/internal/gen"
	"foreman/internal/taskplan"
	"foreman/pkg/models"
)

// DefaultMaxConcurrency bounds simultaneously in-flight tasks per round.
const DefaultMaxConcurrency = 10

// TaskResult is the outcome of one task.
type TaskResult struct {
	TaskID   string
	Category models.TaskCategory
	AgentID  string
	Status   models.TaskStatus
	Output   string
	Error    string
	Quality  float64
	Duration time.Duration
}

// PlanResult aggregates one task plan run.
type PlanResult struct {
	ModuleName string
	// Results holds one entry per task, in plan order.
	Results []TaskResult
	// Blocked lists tasks that never became ready: their dependencies
	// failed, were cancelled, or deadlocked.
	Blocked []string
	// Deadlocked is true when the run stopped early because no task was
	// ready while unfinished tasks remained.
	Deadlocked bool
	// SuccessRate is completed tasks over total tasks, 0-1.
	SuccessRate float64
	// AverageQuality is the mean quality score across completed tasks.
	AverageQuality float64
	// Progress is the final completion percentage, 0-100.
	Progress float64
	// Duration is the wall-clock time of the whole plan run.
	Duration time.Duration
}

// Completed returns true when every task in the plan succeeded.
func (r *PlanResult) Completed() bool {
	return !r.Deadlocked && len(r.Blocked) == 0 && r.SuccessRate == 1.0
}

// Executor runs task plans against a generation service.
type Executor struct {
	gen            gen.Generator
	maxConcurrency int
	logger         *debuglog.Logger
	emit           EventFunc
	history        history
}

// Option configures an Executor.
type Option func(*Executor)

// WithMaxConcurrency overrides the per-round in-flight task bound.
func WithMaxConcurrency(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithLogger attaches a debug logger.
func WithLogger(l *debuglog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithEvents attaches an event callback.
func WithEvents(fn EventFunc) Option {
	return func(e *Executor) { e.emit = fn }
}

// New creates an Executor over the given generation service.
func New(g gen.Generator, opts ...Option) *Executor {
	e := &Executor{
		gen:            g,
		maxConcurrency: DefaultMaxConcurrency,
		logger:         debuglog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// agentPool guards concurrent acquire/release of agent instances during
// a plan run. Each agent holds at most one in-flight task.
type agentPool struct {
	mu     sync.Mutex
	agents []*models.AgentInstance
	byID   map[string]*models.AgentInstance
}

func newAgentPool(agents []*models.AgentInstance) *agentPool {
	p := &agentPool{agents: agents, byID: make(map[string]*models.AgentInstance, len(agents))}
	for _, a := range agents {
		p.byID[a.ID] = a
	}
	return p
}

// acquire locks an agent for the task: the pre-assigned agent if it is
// idle, otherwise a re-assignment by preferred role. Returns nil when no
// idle agent exists.
func (p *agentPool) acquire(task *models.Task) *models.AgentInstance {
	p.mu.Lock()
	defer p.mu.Unlock()

	if task.AssignedAgent != "" {
		if agent, ok := p.byID[task.AssignedAgent]; ok && agent.Status == models.AgentStatusIdle {
			agent.Status = models.AgentStatusWorking
			return agent
		}
	}
	if agent := taskplan.AssignAgent(task.Category, p.agents); agent != nil {
		agent.Status = models.AgentStatusWorking
		return agent
	}
	return nil
}

func (p *agentPool) release(agent *models.AgentInstance) {
	if agent == nil {
		return
	}
	p.mu.Lock()
	agent.Status = models.AgentStatusIdle
	p.mu.Unlock()
}

// RunPlan executes a task plan. The returned result is always complete:
// every task appears exactly once, blocked and deadlocked tasks
// included. Cancelling the context marks unfinished tasks cancelled.
func (e *Executor) RunPlan(ctx context.Context, moduleName string, tasks []*models.Task, agents []*models.AgentInstance) *PlanResult {
	start := time.Now()
	result := &PlanResult{ModuleName: moduleName}
	if len(tasks) == 0 {
		result.SuccessRate = 1.0
		result.Progress = 100
		e.history.add(result)
		return result
	}

	e.event(Event{Type: EventModuleStarted, ModuleName: moduleName})

	pool := newAgentPool(agents)
	succeeded := make(map[string]bool, len(tasks))
	terminal := make(map[string]bool, len(tasks))

	// Quality scores arrive with generation results; keyed by task id for
	// aggregation after the run.
	var qualityMu sync.Mutex
	qualities := make(map[string]float64, len(tasks))
	recordQuality := func(id string, q float64) {
		qualityMu.Lock()
		qualities[id] = q
		qualityMu.Unlock()
	}

	for len(terminal) < len(tasks) {
		if ctx.Err() != nil {
			e.cancelRemaining(moduleName, tasks, terminal)
			break
		}

		ready := e.readyTasks(tasks, succeeded, terminal)
		if len(ready) == 0 {
			// Unfinished tasks with no runnable candidate: either a
			// dependency failed or the plan's edges deadlock. Stop with a
			// partial result and flag the stuck tasks.
			e.markBlocked(moduleName, tasks, terminal, result)
			break
		}

		if len(ready) > e.maxConcurrency {
			ready = ready[:e.maxConcurrency]
		}

		e.runRound(ctx, moduleName, ready, pool, recordQuality)

		launched := 0
		for _, task := range ready {
			if task.Status.Terminal() {
				terminal[task.ID] = true
				if task.Status == models.TaskStatusCompleted {
					succeeded[task.ID] = true
				}
				launched++
			}
		}
		if launched == 0 {
			// Every ready task waited on a busy agent and none ran.
			// With nothing in flight this cannot resolve itself.
			e.markBlocked(moduleName, tasks, terminal, result)
			break
		}

		progress := float64(len(terminal)) / float64(len(tasks)) * 100
		e.logger.Log("module %s progress: %.1f%% (%d/%d tasks)", moduleName, progress, len(terminal), len(tasks))
		e.event(Event{Type: EventRoundCompleted, ModuleName: moduleName, Progress: progress})
	}

	e.collect(tasks, qualities, result)
	result.Duration = time.Since(start)
	e.history.add(result)

	if result.Completed() {
		e.event(Event{Type: EventModuleCompleted, ModuleName: moduleName})
	} else {
		e.event(Event{Type: EventModuleFailed, ModuleName: moduleName,
			Message: fmt.Sprintf("%d blocked, success rate %.0f%%", len(result.Blocked), result.SuccessRate*100)})
	}
	return result
}

// readyTasks returns unfinished tasks whose dependencies all succeeded.
// Tasks depending on a failed or cancelled task never become ready.
func (e *Executor) readyTasks(tasks []*models.Task, succeeded, terminal map[string]bool) []*models.Task {
	var ready []*models.Task
	for _, task := range tasks {
		if terminal[task.ID] {
			continue
		}
		ok := true
		for _, dep := range task.DependsOn {
			if !succeeded[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, task)
		}
	}
	return ready
}

// runRound launches the round's tasks together and waits for all of
// them. Tasks that cannot acquire an agent stay pending for a later
// round.
func (e *Executor) runRound(ctx context.Context, moduleName string, ready []*models.Task, pool *agentPool, recordQuality func(string, float64)) {
	var wg sync.WaitGroup
	for _, task := range ready {
		agent := pool.acquire(task)
		if agent == nil {
			e.logger.Log("task %s waiting: no idle agent", task.ID)
			continue
		}

		wg.Add(1)
		go func(task *models.Task, agent *models.AgentInstance) {
			defer wg.Done()
			defer pool.release(agent)
			e.runTask(ctx, moduleName, task, agent, recordQuality)
		}(task, agent)
	}
	wg.Wait()
}

// runTask executes one task against the generation service.
func (e *Executor) runTask(ctx context.Context, moduleName string, task *models.Task, agent *models.AgentInstance, recordQuality func(string, float64)) {
	now := time.Now()
	task.Status = models.TaskStatusInProgress
	task.StartedAt = &now
	task.AssignedAgent = agent.ID

	e.event(Event{Type: EventTaskStarted, TaskID: task.ID, ModuleName: moduleName, AgentID: agent.ID})

	res, err := e.gen.Generate(ctx, gen.Request{
		Prompt:      task.Description,
		System:      agent.Specialization,
		Model:       agent.Model,
		Temperature: agent.Temperature,
		MaxTokens:   agent.MaxTokens,
		Category:    string(task.Category),
	})

	done := time.Now()
	task.CompletedAt = &done

	if err != nil {
		if ctx.Err() != nil {
			task.Status = models.TaskStatusCancelled
			task.Error = ctx.Err().Error()
			e.event(Event{Type: EventTaskCancelled, TaskID: task.ID, ModuleName: moduleName})
			return
		}
		task.Status = models.TaskStatusFailed
		task.Error = err.Error()
		e.logger.Log("task %s failed: %v", task.ID, err)
		e.event(Event{Type: EventTaskFailed, TaskID: task.ID, ModuleName: moduleName, AgentID: agent.ID, Err: err})
		return
	}

	task.Status = models.TaskStatusCompleted
	task.Result = res.Text
	recordQuality(task.ID, res.QualityScore)
	e.event(Event{Type: EventTaskCompleted, TaskID: task.ID, ModuleName: moduleName, AgentID: agent.ID})
}

// cancelRemaining marks every unfinished task cancelled.
func (e *Executor) cancelRemaining(moduleName string, tasks []*models.Task, terminal map[string]bool) {
	for _, task := range tasks {
		if terminal[task.ID] {
			continue
		}
		task.Status = models.TaskStatusCancelled
		terminal[task.ID] = true
		e.event(Event{Type: EventTaskCancelled, TaskID: task.ID, ModuleName: moduleName})
	}
}

// markBlocked flags every unfinished task as blocked in the result. Task
// status stays pending: blocked is a property of this run, not of the
// task itself.
func (e *Executor) markBlocked(moduleName string, tasks []*models.Task, terminal map[string]bool, result *PlanResult) {
	result.Deadlocked = true
	for _, task := range tasks {
		if terminal[task.ID] {
			continue
		}
		result.Blocked = append(result.Blocked, task.ID)
		e.logger.Log("task %s blocked: dependencies will never complete", task.ID)
		e.event(Event{Type: EventTaskBlocked, TaskID: task.ID, ModuleName: moduleName})
	}
}

// collect fills the aggregate fields of the result from task state.
func (e *Executor) collect(tasks []*models.Task, qualities map[string]float64, result *PlanResult) {
	var completed int
	var qualitySum float64

	for _, task := range tasks {
		tr := TaskResult{
			TaskID:   task.ID,
			Category: task.Category,
			AgentID:  task.AssignedAgent,
			Status:   task.Status,
			Output:   task.Result,
			Error:    task.Error,
			Quality:  qualities[task.ID],
		}
		if task.StartedAt != nil && task.CompletedAt != nil {
			tr.Duration = task.CompletedAt.Sub(*task.StartedAt)
		}
		result.Results = append(result.Results, tr)

		if task.Status == models.TaskStatusCompleted {
			completed++
			qualitySum += qualities[task.ID]
		}
	}

	result.SuccessRate = float64(completed) / float64(len(tasks))
	result.Progress = float64(completed+e.countFailed(tasks)) / float64(len(tasks)) * 100
	if completed > 0 {
		result.AverageQuality = qualitySum / float64(completed)
	}
}

func (e *Executor) countFailed(tasks []*models.Task) int {
	n := 0
	for _, task := range tasks {
		if task.Status == models.TaskStatusFailed || task.Status == models.TaskStatusCancelled {
			n++
		}
	}
	return n
}

func (e *Executor) event(ev Event) {
	if e.emit == nil {
		return
	}
	ev.Timestamp = time.Now()
	e.emit(ev)
}
