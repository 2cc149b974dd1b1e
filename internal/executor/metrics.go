package executor

import (
	"sync"
	"time"

	"foreman/pkg/models"
)

// Stats aggregates outcomes across all plans an executor has run.
type Stats struct {
	// PlansExecuted is the number of RunPlan calls recorded.
	PlansExecuted int
	// TasksExecuted counts tasks across all plans, blocked included.
	TasksExecuted int
	// TasksCompleted counts tasks that finished successfully.
	TasksCompleted int
	// SuccessRate is TasksCompleted over TasksExecuted, 0-1.
	SuccessRate float64
	// AverageQuality is the mean quality across all completed tasks.
	AverageQuality float64
	// TotalDuration sums wall-clock plan durations.
	TotalDuration time.Duration
}

// history keeps finished plan results for stats. Appended by RunPlan.
type history struct {
	mu      sync.Mutex
	results []*PlanResult
}

func (h *history) add(res *PlanResult) {
	h.mu.Lock()
	h.results = append(h.results, res)
	h.mu.Unlock()
}

// History returns the executor's recorded plan results in run order.
func (e *Executor) History() []*PlanResult {
	e.history.mu.Lock()
	defer e.history.mu.Unlock()
	return append([]*PlanResult(nil), e.history.results...)
}

// Stats aggregates all recorded plan results.
func (e *Executor) Stats() Stats {
	e.history.mu.Lock()
	defer e.history.mu.Unlock()

	var s Stats
	var qualitySum float64
	s.PlansExecuted = len(e.history.results)

	for _, res := range e.history.results {
		s.TotalDuration += res.Duration
		for _, tr := range res.Results {
			s.TasksExecuted++
			if tr.Status == models.TaskStatusCompleted {
				s.TasksCompleted++
				qualitySum += tr.Quality
			}
		}
	}

	if s.TasksExecuted > 0 {
		s.SuccessRate = float64(s.TasksCompleted) / float64(s.TasksExecuted)
	}
	if s.TasksCompleted > 0 {
		s.AverageQuality = qualitySum / float64(s.TasksCompleted)
	}
	return s
}

// Utilization is a point-in-time snapshot of a set of agents.
type Utilization struct {
	Total   int
	Working int
	Idle    int
	// ByRole counts agents per role.
	ByRole map[string]int
}

// AgentUtilization snapshots the given agents' statuses.
func AgentUtilization(agents []*models.AgentInstance) Utilization {
	u := Utilization{Total: len(agents), ByRole: make(map[string]int)}
	for _, a := range agents {
		u.ByRole[a.Role]++
		switch a.Status {
		case models.AgentStatusWorking:
			u.Working++
		case models.AgentStatusIdle:
			u.Idle++
		}
	}
	return u
}
