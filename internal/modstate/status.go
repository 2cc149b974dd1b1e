package modstate

import (
	"fmt"
	"sort"
	"time"

	"foreman/pkg/models"
)

// DependencyExternal marks a dependency that names a module outside the
// registered set.
const DependencyExternal = "external"

// ModuleDetail is a point-in-time view of one module's state.
type ModuleDetail struct {
	Name           string
	Type           models.ModuleType
	Status         models.ModuleStatus
	Progress       float64
	AssignedAgents []string
	Blockers       []string
	Error          string
	// DependenciesStatus maps each declared dependency to its current
	// status, or "external" for names outside the set.
	DependenciesStatus map[string]string
	// Dependents lists modules that depend on this one.
	Dependents []string
	// OnCriticalPath is true when the module sits on the longest
	// dependency chain.
	OnCriticalPath bool
	// EstimatedRemaining projects time to completion from elapsed time
	// and current progress. Zero when not in progress.
	EstimatedRemaining time.Duration
	StartedAt          *time.Time
	CompletedAt        *time.Time
}

// Status returns the detailed view of one module.
func (m *Manager) Status(name string) (*ModuleDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.modules[name]
	if !ok {
		return nil, fmt.Errorf("modstate: unknown module %q", name)
	}

	detail := &ModuleDetail{
		Name:               name,
		Type:               st.Spec.Type,
		Status:             st.Status,
		Progress:           st.Progress,
		AssignedAgents:     append([]string(nil), st.AssignedAgents...),
		Blockers:           append([]string(nil), st.Blockers...),
		Error:              st.Error,
		DependenciesStatus: make(map[string]string, len(st.Spec.DependsOn)),
		Dependents:         m.dependentsLocked(name),
		StartedAt:          st.StartedAt,
		CompletedAt:        st.CompletedAt,
	}

	for _, dep := range st.Spec.DependsOn {
		if depSt, inSet := m.modules[dep]; inSet {
			detail.DependenciesStatus[dep] = string(depSt.Status)
		} else {
			detail.DependenciesStatus[dep] = DependencyExternal
		}
	}

	if m.plan != nil {
		detail.OnCriticalPath = m.plan.OnCriticalPath(name)
	}

	if st.Status == models.ModuleStatusInProgress && st.StartedAt != nil && st.Progress > 0 {
		elapsed := time.Since(*st.StartedAt)
		total := time.Duration(float64(elapsed) * (100.0 / st.Progress))
		if remaining := total - elapsed; remaining > 0 {
			detail.EstimatedRemaining = remaining
		}
	}

	return detail, nil
}

// Summary aggregates the whole module set.
type Summary struct {
	TotalModules    int
	StatusCounts    map[models.ModuleStatus]int
	OverallProgress float64
	EstimatedHours  int
	CompletedHours  int
	CriticalPath    []string
	ExecutionPhases int
	ReadyModules    int
	BlockedModules  int
	ProjectStart    *time.Time
	ProjectEnd      *time.Time
}

// Summary returns the aggregate project view.
func (m *Manager) Summary() *Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := &Summary{
		TotalModules: len(m.modules),
		StatusCounts: make(map[models.ModuleStatus]int),
	}
	if m.plan != nil {
		s.CriticalPath = append([]string(nil), m.plan.CriticalPath...)
		s.ExecutionPhases = len(m.plan.Phases)
	}

	var totalProgress float64
	for _, st := range m.modules {
		s.StatusCounts[st.Status]++
		totalProgress += st.Progress
		s.EstimatedHours += st.Spec.EstimatedHours

		switch {
		case st.Status == models.ModuleStatusCompleted:
			s.CompletedHours += st.Spec.EstimatedHours
		case st.Status == models.ModuleStatusReady:
			s.ReadyModules++
		}
		if len(st.Blockers) > 0 {
			s.BlockedModules++
		}

		if st.StartedAt != nil && (s.ProjectStart == nil || st.StartedAt.Before(*s.ProjectStart)) {
			s.ProjectStart = st.StartedAt
		}
		if st.CompletedAt != nil && (s.ProjectEnd == nil || st.CompletedAt.After(*s.ProjectEnd)) {
			s.ProjectEnd = st.CompletedAt
		}
	}
	if s.TotalModules > 0 {
		s.OverallProgress = totalProgress / float64(s.TotalModules)
	}

	return s
}

// ByStatus returns module names currently in the given status, sorted.
func (m *Manager) ByStatus(status models.ModuleStatus) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name, st := range m.modules {
		if st.Status == status {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
