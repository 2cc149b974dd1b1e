package models

import "time"

// AgentStatus represents the current state of an agent instance.
type AgentStatus string

const (
	// AgentStatusIdle indicates the agent is available for work.
	AgentStatusIdle AgentStatus = "idle"
	// AgentStatusWorking indicates the agent holds an in-flight task.
	AgentStatusWorking AgentStatus = "working"
	// AgentStatusError indicates the agent's last execution failed.
	AgentStatusError AgentStatus = "error"
)

// Valid returns true if the status is a known value.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusIdle, AgentStatusWorking, AgentStatusError:
		return true
	default:
		return false
	}
}

// AgentInstance is a bound worker created for a module.
// An instance owns at most one in-flight task at a time.
type AgentInstance struct {
	// ID is the unique identifier for this agent instance.
	ID string `json:"id"`
	// Role is the agent's role (backend, frontend, qa, devops, etc.).
	Role string `json:"role"`
	// Specialization describes what this instance was spawned to work on.
	Specialization string `json:"specialization,omitempty"`
	// Model is the name of the capability record this instance is bound to.
	Model string `json:"model"`
	// Status is the current state of the agent.
	Status AgentStatus `json:"status"`
	// Temperature is the sampling temperature used for generation requests.
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens caps the output length of generation requests.
	MaxTokens int `json:"max_tokens,omitempty"`
	// CreatedAt is when the instance was spawned.
	CreatedAt time.Time `json:"created_at"`
}
