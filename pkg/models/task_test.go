package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	valid := []TaskStatus{
		TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected status %q to be valid", s)
		}
	}

	invalid := []TaskStatus{"blocked", "done", ""}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("expected status %q to be invalid", s)
		}
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   bool
	}{
		{TaskStatusCompleted, true},
		{TaskStatusFailed, true},
		{TaskStatusCancelled, true},
		{TaskStatusPending, false},
		{TaskStatusInProgress, false},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.want {
			t.Errorf("TaskStatus(%q).Terminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
