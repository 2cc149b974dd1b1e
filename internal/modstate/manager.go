// Package modstate tracks module lifecycle through its state machine:
// planned -> ready -> in_progress -> {completed | failed | cancelled},
// with waiting_dependency on failed start checks and paused reachable
// from in_progress. Completion of a module unlocks its dependents.
package modstate

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"foreman/internal/debuglog"
	"foreman/internal/resolve"
	"foreman/pkg/models"
)

// BlockerDependencyFailed prefixes the blocker recorded on dependents of
// a failed module.
const BlockerDependencyFailed = "dependency_failed:"

// ModuleState is the live state of one registered module.
type ModuleState struct {
	// Spec is the registered module definition. Dependencies are
	// immutable after registration.
	Spec *models.Module
	// Status is the current state machine position.
	Status models.ModuleStatus
	// Progress is the completion percentage, 0-100.
	Progress float64
	// AssignedAgents lists the agent ids working the module.
	AssignedAgents []string
	// Blockers records why the module cannot proceed: unmet cycle-break
	// dependencies or failed upstream modules.
	Blockers []string
	// Error holds the failure reason when Status is failed.
	Error string
	// StartedAt is when execution began.
	StartedAt *time.Time
	// CompletedAt is when the module reached a terminal state.
	CompletedAt *time.Time
}

// Store persists module state snapshots. The manager calls it after every
// transition; persistence failures are logged, not fatal.
type Store interface {
	SaveModuleState(st *ModuleState) error
}

// Manager owns the module state machines for one project run.
type Manager struct {
	mu      sync.RWMutex
	modules map[string]*ModuleState
	plan    *resolve.Plan
	store   Store
	logger  *debuglog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore attaches a persistence hook.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// WithLogger attaches a debug logger.
func WithLogger(l *debuglog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		modules: make(map[string]*ModuleState),
		logger:  debuglog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register validates the module set, resolves the execution plan, and
// seeds every module in planned status. Modules with no unmet in-set
// dependencies move straight to ready. Registering replaces any
// previously registered set.
func (m *Manager) Register(modules map[string]*models.Module) (*resolve.Plan, error) {
	for _, mod := range modules {
		if err := mod.Validate(); err != nil {
			return nil, err
		}
	}

	plan, err := resolve.Resolve(modules)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.plan = plan
	m.modules = make(map[string]*ModuleState, len(modules))
	for name, mod := range modules {
		st := &ModuleState{Spec: mod, Status: models.ModuleStatusPlanned}
		if blockers, ok := plan.Blocked[name]; ok {
			st.Blockers = append(st.Blockers, blockers...)
		}
		m.modules[name] = st
	}
	for name := range m.modules {
		m.promoteLocked(name)
	}

	m.logger.Log("registered %d modules in %d phases", len(modules), len(plan.Phases))
	return plan, nil
}

// Plan returns the execution plan from the last Register call.
func (m *Manager) Plan() *resolve.Plan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plan
}

// NextReady returns the names of modules currently in ready status, in
// name order.
func (m *Manager) NextReady() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ready []string
	for name, st := range m.modules {
		if st.Status == models.ModuleStatusReady {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	return ready
}

// Start moves a ready module to in_progress with the given agents.
// Dependencies are re-checked at start time: if one is no longer
// satisfied the module moves to waiting_dependency instead and an error
// is returned.
func (m *Manager) Start(name string, agents []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}
	if st.Status != models.ModuleStatusReady {
		return fmt.Errorf("modstate: module %s not ready (status %s)", name, st.Status)
	}

	if !m.dependenciesMetLocked(name) {
		st.Status = models.ModuleStatusWaitingDependency
		m.persistLocked(st)
		return fmt.Errorf("modstate: module %s has unmet dependencies, now waiting", name)
	}

	now := time.Now()
	st.Status = models.ModuleStatusInProgress
	st.StartedAt = &now
	st.AssignedAgents = append([]string(nil), agents...)
	st.Progress = 0

	m.persistLocked(st)
	m.logger.Log("module %s started with agents %v", name, agents)
	return nil
}

// UpdateProgress records progress for an in_progress module, clamped to
// 0-100. Reaching 100 completes the module and unlocks dependents.
func (m *Manager) UpdateProgress(name string, progress float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}

	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}
	st.Progress = progress

	if progress >= 100 && st.Status == models.ModuleStatusInProgress {
		m.completeLocked(name)
	}

	m.persistLocked(st)
	return nil
}

// Fail marks an in_progress module failed and records a blocked-by-failure
// marker on every direct dependent still in planned or ready.
func (m *Manager) Fail(name string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}

	now := time.Now()
	st.Status = models.ModuleStatusFailed
	st.Error = reason
	st.CompletedAt = &now

	for _, dep := range m.dependentsLocked(name) {
		depSt := m.modules[dep]
		if depSt.Status == models.ModuleStatusPlanned || depSt.Status == models.ModuleStatusReady {
			depSt.Blockers = append(depSt.Blockers, BlockerDependencyFailed+name)
			m.persistLocked(depSt)
		}
	}

	m.persistLocked(st)
	m.logger.Log("module %s failed: %s", name, reason)
	return nil
}

// Pause suspends an in_progress module, preserving its progress.
func (m *Manager) Pause(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}
	if st.Status != models.ModuleStatusInProgress {
		return fmt.Errorf("modstate: module %s not in progress (status %s)", name, st.Status)
	}

	st.Status = models.ModuleStatusPaused
	m.persistLocked(st)
	m.logger.Log("module %s paused at %.1f%%", name, st.Progress)
	return nil
}

// Resume returns a paused module to in_progress at its preserved progress.
func (m *Manager) Resume(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}
	if st.Status != models.ModuleStatusPaused {
		return fmt.Errorf("modstate: module %s not paused (status %s)", name, st.Status)
	}

	st.Status = models.ModuleStatusInProgress
	m.persistLocked(st)
	m.logger.Log("module %s resumed at %.1f%%", name, st.Progress)
	return nil
}

// Cancel cancels a module. Allowed from any state except completed.
func (m *Manager) Cancel(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}
	if st.Status == models.ModuleStatusCompleted {
		return fmt.Errorf("modstate: module %s already completed", name)
	}

	now := time.Now()
	st.Status = models.ModuleStatusCancelled
	st.CompletedAt = &now
	m.persistLocked(st)
	m.logger.Log("module %s cancelled", name)
	return nil
}

// Reset returns a module to its initial state, clearing progress, agents,
// blockers, and timestamps, then re-checks whether it can move to ready.
func (m *Manager) Reset(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.modules[name]
	if !ok {
		return fmt.Errorf("modstate: unknown module %q", name)
	}

	st.Status = models.ModuleStatusPlanned
	st.Progress = 0
	st.AssignedAgents = nil
	st.Blockers = nil
	st.Error = ""
	st.StartedAt = nil
	st.CompletedAt = nil

	m.promoteLocked(name)
	m.persistLocked(st)
	m.logger.Log("module %s reset", name)
	return nil
}

// completeLocked finishes a module and promotes dependents whose
// dependencies are now all satisfied.
func (m *Manager) completeLocked(name string) {
	st := m.modules[name]
	now := time.Now()
	st.Status = models.ModuleStatusCompleted
	st.Progress = 100
	st.CompletedAt = &now

	for _, dep := range m.dependentsLocked(name) {
		m.promoteLocked(dep)
		m.persistLocked(m.modules[dep])
	}
	m.logger.Log("module %s completed", name)
}

// promoteLocked moves a planned or waiting module to ready when all its
// in-set dependencies are completed.
func (m *Manager) promoteLocked(name string) {
	st := m.modules[name]
	if st.Status != models.ModuleStatusPlanned && st.Status != models.ModuleStatusWaitingDependency {
		return
	}
	if m.dependenciesMetLocked(name) {
		st.Status = models.ModuleStatusReady
	}
}

// dependenciesMetLocked reports whether every in-set dependency of the
// module is completed. Dependencies outside the set are external and
// always satisfied.
func (m *Manager) dependenciesMetLocked(name string) bool {
	st, ok := m.modules[name]
	if !ok {
		return false
	}
	for _, dep := range st.Spec.DependsOn {
		if depSt, inSet := m.modules[dep]; inSet && depSt.Status != models.ModuleStatusCompleted {
			return false
		}
	}
	return true
}

// dependentsLocked returns modules that list the given module as a
// dependency, in name order.
func (m *Manager) dependentsLocked(name string) []string {
	var deps []string
	for other, st := range m.modules {
		for _, dep := range st.Spec.DependsOn {
			if dep == name {
				deps = append(deps, other)
				break
			}
		}
	}
	sort.Strings(deps)
	return deps
}

func (m *Manager) persistLocked(st *ModuleState) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveModuleState(st); err != nil {
		m.logger.Log("persist module %s failed: %v", st.Spec.Name, err)
	}
}
