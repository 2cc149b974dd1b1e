package executor

import (
	"context"
	"testing"
	"time"

	"foreman/pkg/models"
)

func TestStatsAcrossPlans(t *testing.T) {
	g := &fakeGen{quality: 0.8}
	e := New(g)

	e.RunPlan(context.Background(), "m1", []*models.Task{task("a", "a"), task("b", "b")}, idleAgents(2))

	g.failMarker = "broken"
	e.RunPlan(context.Background(), "m2", []*models.Task{task("c", "broken step"), task("d", "fine")}, idleAgents(2))

	stats := e.Stats()
	if stats.PlansExecuted != 2 {
		t.Errorf("expected 2 plans executed, got %d", stats.PlansExecuted)
	}
	if stats.TasksExecuted != 4 {
		t.Errorf("expected 4 tasks executed, got %d", stats.TasksExecuted)
	}
	if stats.TasksCompleted != 3 {
		t.Errorf("expected 3 tasks completed, got %d", stats.TasksCompleted)
	}
	if stats.SuccessRate != 0.75 {
		t.Errorf("expected success rate 0.75, got %.2f", stats.SuccessRate)
	}
	if stats.AverageQuality != 0.8 {
		t.Errorf("expected average quality 0.8, got %.2f", stats.AverageQuality)
	}
}

func TestHistoryOrdered(t *testing.T) {
	e := New(&fakeGen{})

	e.RunPlan(context.Background(), "first", []*models.Task{task("a", "a")}, idleAgents(1))
	e.RunPlan(context.Background(), "second", []*models.Task{task("b", "b")}, idleAgents(1))

	hist := e.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(hist))
	}
	if hist[0].ModuleName != "first" || hist[1].ModuleName != "second" {
		t.Errorf("expected run order preserved, got [%s %s]", hist[0].ModuleName, hist[1].ModuleName)
	}
}

func TestStatsEmpty(t *testing.T) {
	e := New(&fakeGen{})
	stats := e.Stats()
	if stats.PlansExecuted != 0 || stats.SuccessRate != 0 || stats.AverageQuality != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestAgentUtilization(t *testing.T) {
	agents := []*models.AgentInstance{
		{ID: "a", Role: "backend", Status: models.AgentStatusWorking},
		{ID: "b", Role: "backend", Status: models.AgentStatusIdle},
		{ID: "c", Role: "qa", Status: models.AgentStatusIdle},
	}

	u := AgentUtilization(agents)
	if u.Total != 3 || u.Working != 1 || u.Idle != 2 {
		t.Errorf("expected 3 total / 1 working / 2 idle, got %+v", u)
	}
	if u.ByRole["backend"] != 2 || u.ByRole["qa"] != 1 {
		t.Errorf("expected role counts backend=2 qa=1, got %v", u.ByRole)
	}
}

func TestStatsDurationAccumulates(t *testing.T) {
	g := &fakeGen{delay: 5 * time.Millisecond}
	e := New(g)

	e.RunPlan(context.Background(), "m", []*models.Task{task("a", "a")}, idleAgents(1))

	if e.Stats().TotalDuration <= 0 {
		t.Error("expected positive total duration")
	}
}
