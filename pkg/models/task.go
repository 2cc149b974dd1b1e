package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being worked on.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task completed successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled indicates the task was cancelled before completion.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if the task can no longer change state.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskCategory identifies the kind of work a task represents.
// Categories drive dependency wiring and preferred-role assignment.
type TaskCategory string

const (
	// CategoryDesign is architecture and structure design work.
	CategoryDesign TaskCategory = "design"
	// CategoryImplement is general implementation work.
	CategoryImplement TaskCategory = "implement"
	// CategoryImplementBackend is backend-side implementation in a fullstack module.
	CategoryImplementBackend TaskCategory = "implement_backend"
	// CategoryImplementFrontend is frontend-side implementation in a fullstack module.
	CategoryImplementFrontend TaskCategory = "implement_frontend"
	// CategoryIntegrate joins backend and frontend implementations.
	CategoryIntegrate TaskCategory = "integrate"
	// CategoryTest is test creation and execution work.
	CategoryTest TaskCategory = "test"
	// CategoryReview is review and optimization work.
	CategoryReview TaskCategory = "review"
	// CategoryPlan is planning work for QA and deployment modules.
	CategoryPlan TaskCategory = "plan"
	// CategoryConfigure is infrastructure configuration work.
	CategoryConfigure TaskCategory = "configure"
	// CategoryDeploy is deployment execution work.
	CategoryDeploy TaskCategory = "deploy"
	// CategoryMonitor is monitoring and alerting setup work.
	CategoryMonitor TaskCategory = "monitor"
	// CategoryExecute is test-suite execution work in QA modules.
	CategoryExecute TaskCategory = "execute"
	// CategoryReport is report generation work in QA modules.
	CategoryReport TaskCategory = "report"
)

// Task represents a typed sub-unit of work within a module.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// ModuleName is the name of the module this task belongs to.
	ModuleName string `json:"module_name"`
	// Category is the kind of work this task represents.
	Category TaskCategory `json:"category"`
	// Description provides the task's work description.
	Description string `json:"description"`
	// Priority ranks the task within its module; earlier sequence entries rank higher.
	Priority int `json:"priority"`
	// DependsOn lists task IDs that must complete before this task.
	DependsOn []string `json:"depends_on,omitempty"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// AssignedAgent is the ID of the agent instance bound to this task, if any.
	AssignedAgent string `json:"assigned_agent,omitempty"`
	// Result holds the generated output once the task completes.
	Result string `json:"result,omitempty"`
	// Error contains the error message if the task failed.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// StartedAt is when execution began, if it has.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
