package main

import (
	"testing"

	"foreman/internal/executor"
	"foreman/internal/project"
	"foreman/pkg/models"
)

func TestTaskFromResult(t *testing.T) {
	tr := executor.TaskResult{
		TaskID:   "auth-design-1234",
		Category: models.CategoryDesign,
		AgentID:  "agent-a",
		Status:   models.TaskStatusCompleted,
		Output:   "architecture sketch",
	}

	task := taskFromResult("auth", tr)

	if task.ModuleName != "auth" {
		t.Errorf("expected module auth, got %q", task.ModuleName)
	}
	if task.Result != "architecture sketch" {
		t.Errorf("expected output carried over, got %q", task.Result)
	}
	if task.CompletedAt == nil {
		t.Error("expected completed_at set for terminal status")
	}
}

func TestTaskFromResultPendingHasNoCompletion(t *testing.T) {
	tr := executor.TaskResult{TaskID: "t", Status: models.TaskStatusPending}
	task := taskFromResult("m", tr)
	if task.CompletedAt != nil {
		t.Error("expected no completed_at for pending task")
	}
}

func TestExampleProjectTemplateParses(t *testing.T) {
	dir := t.TempDir()
	if err := createExampleProject(dir); err != nil {
		t.Fatalf("createExampleProject: %v", err)
	}

	def, err := project.Load(dir + "/project.yaml")
	if err != nil {
		t.Fatalf("generated template does not parse: %v", err)
	}
	if len(def.Modules) != 3 {
		t.Errorf("expected 3 example modules, got %d", len(def.Modules))
	}
}
