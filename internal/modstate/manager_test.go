package modstate

import (
	"strings"
	"testing"

	"foreman/pkg/models"
)

func registerSet(t *testing.T, m *Manager, deps map[string][]string) {
	t.Helper()
	set := make(map[string]*models.Module, len(deps))
	for name, d := range deps {
		set[name] = &models.Module{Name: name, DependsOn: d}
	}
	if _, err := m.Register(set); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func mustStatus(t *testing.T, m *Manager, name string) models.ModuleStatus {
	t.Helper()
	detail, err := m.Status(name)
	if err != nil {
		t.Fatalf("Status(%s) failed: %v", name, err)
	}
	return detail.Status
}

func TestRegisterPromotesRootsToReady(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{
		"auth": nil,
		"api":  {"auth"},
	})

	if got := mustStatus(t, m, "auth"); got != models.ModuleStatusReady {
		t.Errorf("expected auth ready, got %s", got)
	}
	if got := mustStatus(t, m, "api"); got != models.ModuleStatusPlanned {
		t.Errorf("expected api planned, got %s", got)
	}
	if ready := m.NextReady(); len(ready) != 1 || ready[0] != "auth" {
		t.Errorf("expected [auth] ready, got %v", ready)
	}
}

func TestStartAndComplete(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{
		"auth": nil,
		"api":  {"auth"},
	})

	if err := m.Start("auth", []string{"agent-1"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := mustStatus(t, m, "auth"); got != models.ModuleStatusInProgress {
		t.Errorf("expected auth in_progress, got %s", got)
	}

	if err := m.UpdateProgress("auth", 50); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if got := mustStatus(t, m, "api"); got != models.ModuleStatusPlanned {
		t.Errorf("expected api still planned at 50%%, got %s", got)
	}

	if err := m.UpdateProgress("auth", 100); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if got := mustStatus(t, m, "auth"); got != models.ModuleStatusCompleted {
		t.Errorf("expected auth completed, got %s", got)
	}
	// Completion unlocks the dependent.
	if got := mustStatus(t, m, "api"); got != models.ModuleStatusReady {
		t.Errorf("expected api ready after auth completed, got %s", got)
	}
}

func TestStartRequiresReady(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{
		"auth": nil,
		"api":  {"auth"},
	})

	if err := m.Start("api", nil); err == nil {
		t.Error("expected error starting a planned module")
	}
	if err := m.Start("unknown", nil); err == nil {
		t.Error("expected error starting an unknown module")
	}
}

func TestProgressClamped(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{"solo": nil})
	m.Start("solo", nil)

	m.UpdateProgress("solo", -5)
	detail, _ := m.Status("solo")
	if detail.Progress != 0 {
		t.Errorf("expected progress clamped to 0, got %.1f", detail.Progress)
	}

	m.UpdateProgress("solo", 150)
	detail, _ = m.Status("solo")
	if detail.Progress != 100 {
		t.Errorf("expected progress clamped to 100, got %.1f", detail.Progress)
	}
	if detail.Status != models.ModuleStatusCompleted {
		t.Errorf("expected clamped 100 to complete, got %s", detail.Status)
	}
}

func TestFailPropagatesBlockers(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{
		"auth":    nil,
		"api":     {"auth"},
		"billing": {"api"},
	})

	m.Start("auth", nil)
	if err := m.Fail("auth", "schema migration broke"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	detail, _ := m.Status("auth")
	if detail.Status != models.ModuleStatusFailed || detail.Error != "schema migration broke" {
		t.Errorf("expected failed with reason, got %s %q", detail.Status, detail.Error)
	}

	// Direct dependents still planned/ready pick up the failure marker.
	apiDetail, _ := m.Status("api")
	if len(apiDetail.Blockers) != 1 || apiDetail.Blockers[0] != BlockerDependencyFailed+"auth" {
		t.Errorf("expected dependency_failed blocker on api, got %v", apiDetail.Blockers)
	}

	// Transitive dependents are untouched.
	billingDetail, _ := m.Status("billing")
	if len(billingDetail.Blockers) != 0 {
		t.Errorf("expected no blocker on billing, got %v", billingDetail.Blockers)
	}
}

func TestPauseResumePreservesProgress(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{"solo": nil})
	m.Start("solo", nil)
	m.UpdateProgress("solo", 40)

	if err := m.Pause("solo"); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	detail, _ := m.Status("solo")
	if detail.Status != models.ModuleStatusPaused || detail.Progress != 40 {
		t.Errorf("expected paused at 40%%, got %s %.1f", detail.Status, detail.Progress)
	}

	if err := m.Pause("solo"); err == nil {
		t.Error("expected error pausing a paused module")
	}

	if err := m.Resume("solo"); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	detail, _ = m.Status("solo")
	if detail.Status != models.ModuleStatusInProgress || detail.Progress != 40 {
		t.Errorf("expected resumed at 40%%, got %s %.1f", detail.Status, detail.Progress)
	}
}

func TestCancelAllowedExceptCompleted(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{"a": nil, "b": nil})

	m.Start("a", nil)
	m.UpdateProgress("a", 100)
	if err := m.Cancel("a"); err == nil {
		t.Error("expected error cancelling a completed module")
	}

	if err := m.Cancel("b"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if got := mustStatus(t, m, "b"); got != models.ModuleStatusCancelled {
		t.Errorf("expected b cancelled, got %s", got)
	}
}

func TestResetReturnsToInitialState(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{"solo": nil})

	m.Start("solo", []string{"agent-1"})
	m.Fail("solo", "boom")

	if err := m.Reset("solo"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	detail, _ := m.Status("solo")
	if detail.Status != models.ModuleStatusReady {
		t.Errorf("expected reset module with no deps to be ready, got %s", detail.Status)
	}
	if detail.Progress != 0 || detail.Error != "" || len(detail.AssignedAgents) != 0 {
		t.Errorf("expected cleared state, got %+v", detail)
	}
}

func TestStatusDependencyView(t *testing.T) {
	m := NewManager()
	registerSet(t, m, map[string][]string{
		"api": {"auth", "legacy-billing"},
		"auth": nil,
	})

	detail, err := m.Status("api")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if got := detail.DependenciesStatus["auth"]; got != string(models.ModuleStatusReady) {
		t.Errorf("expected auth dependency reported ready, got %s", got)
	}
	if got := detail.DependenciesStatus["legacy-billing"]; got != DependencyExternal {
		t.Errorf("expected out-of-set dependency reported external, got %s", got)
	}

	authDetail, _ := m.Status("auth")
	if len(authDetail.Dependents) != 1 || authDetail.Dependents[0] != "api" {
		t.Errorf("expected api listed as dependent of auth, got %v", authDetail.Dependents)
	}
}

func TestSummary(t *testing.T) {
	m := NewManager()
	set := map[string]*models.Module{
		"auth": {Name: "auth", EstimatedHours: 10},
		"api":  {Name: "api", DependsOn: []string{"auth"}, EstimatedHours: 20},
	}
	if _, err := m.Register(set); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	m.Start("auth", nil)
	m.UpdateProgress("auth", 100)

	s := m.Summary()
	if s.TotalModules != 2 {
		t.Errorf("expected 2 modules, got %d", s.TotalModules)
	}
	if s.StatusCounts[models.ModuleStatusCompleted] != 1 {
		t.Errorf("expected 1 completed, got %d", s.StatusCounts[models.ModuleStatusCompleted])
	}
	if s.OverallProgress != 50 {
		t.Errorf("expected 50%% overall progress, got %.1f", s.OverallProgress)
	}
	if s.EstimatedHours != 30 || s.CompletedHours != 10 {
		t.Errorf("expected 30 estimated / 10 completed hours, got %d / %d", s.EstimatedHours, s.CompletedHours)
	}
	if s.ReadyModules != 1 {
		t.Errorf("expected 1 ready module, got %d", s.ReadyModules)
	}
	if s.ExecutionPhases != 2 {
		t.Errorf("expected 2 execution phases, got %d", s.ExecutionPhases)
	}
}

type recordingStore struct {
	saves []string
}

func (r *recordingStore) SaveModuleState(st *ModuleState) error {
	r.saves = append(r.saves, st.Spec.Name+":"+string(st.Status))
	return nil
}

func TestStoreReceivesTransitions(t *testing.T) {
	store := &recordingStore{}
	m := NewManager(WithStore(store))
	registerSet(t, m, map[string][]string{"solo": nil})

	m.Start("solo", nil)
	m.UpdateProgress("solo", 100)

	joined := strings.Join(store.saves, ",")
	if !strings.Contains(joined, "solo:in_progress") {
		t.Errorf("expected start transition persisted, got %v", store.saves)
	}
	if !strings.Contains(joined, "solo:completed") {
		t.Errorf("expected completion persisted, got %v", store.saves)
	}
}

func TestRegisterRejectsInvalidModule(t *testing.T) {
	m := NewManager()
	_, err := m.Register(map[string]*models.Module{
		"bad": {Name: "bad", Complexity: 99},
	})
	if err == nil {
		t.Error("expected validation error for out-of-range complexity")
	}
}
