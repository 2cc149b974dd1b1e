package executor

import "time"

// EventType represents the type of executor event.
type EventType string

const (
	// EventTaskStarted indicates a task has started execution.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventTaskBlocked indicates a task is permanently blocked by a
	// failed or stuck dependency.
	EventTaskBlocked EventType = "task_blocked"
	// EventTaskCancelled indicates a task was cancelled before completion.
	EventTaskCancelled EventType = "task_cancelled"
	// EventRoundCompleted indicates one execution round finished.
	EventRoundCompleted EventType = "round_completed"
	// EventModuleStarted indicates a module's task plan began executing.
	EventModuleStarted EventType = "module_started"
	// EventModuleCompleted indicates a module's task plan finished.
	EventModuleCompleted EventType = "module_completed"
	// EventModuleFailed indicates a module's task plan ended with failures.
	EventModuleFailed EventType = "module_failed"
	// EventPhaseCompleted indicates a whole execution phase finished.
	EventPhaseCompleted EventType = "phase_completed"
)

// Event is emitted as execution progresses. Consumers must not block:
// events are delivered synchronously from the execution path.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// ModuleName is the owning module, if applicable.
	ModuleName string
	// AgentID is the agent bound to the task, if applicable.
	AgentID string
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Progress is the plan completion percentage for round events.
	Progress float64
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// EventFunc receives executor events. A nil EventFunc disables emission.
type EventFunc func(Event)
