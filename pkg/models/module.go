package models

import (
	"fmt"
	"time"
)

// ModuleType categorizes a module by the kind of work it contains.
type ModuleType string

const (
	// ModuleTypeBackend covers API, service, and data-layer work.
	ModuleTypeBackend ModuleType = "backend"
	// ModuleTypeFrontend covers UI component and client work.
	ModuleTypeFrontend ModuleType = "frontend"
	// ModuleTypeFullstack spans both backend and frontend work.
	ModuleTypeFullstack ModuleType = "fullstack"
	// ModuleTypeMobile covers mobile application work.
	ModuleTypeMobile ModuleType = "mobile"
	// ModuleTypeQA covers testing and quality assurance work.
	ModuleTypeQA ModuleType = "qa"
	// ModuleTypeDeploy covers infrastructure and deployment work.
	ModuleTypeDeploy ModuleType = "deploy"
)

// Valid returns true if the module type is a known value.
func (t ModuleType) Valid() bool {
	switch t {
	case ModuleTypeBackend, ModuleTypeFrontend, ModuleTypeFullstack,
		ModuleTypeMobile, ModuleTypeQA, ModuleTypeDeploy:
		return true
	default:
		return false
	}
}

// ModuleStatus represents the current state of a module.
type ModuleStatus string

const (
	// ModuleStatusPlanned indicates the module is registered but not yet unblocked.
	ModuleStatusPlanned ModuleStatus = "planned"
	// ModuleStatusReady indicates all dependencies are completed and the module can start.
	ModuleStatusReady ModuleStatus = "ready"
	// ModuleStatusInProgress indicates the module is being worked on.
	ModuleStatusInProgress ModuleStatus = "in_progress"
	// ModuleStatusWaitingDependency indicates a start was attempted while a dependency was unmet.
	ModuleStatusWaitingDependency ModuleStatus = "waiting_dependency"
	// ModuleStatusPaused indicates execution is temporarily suspended.
	ModuleStatusPaused ModuleStatus = "paused"
	// ModuleStatusCompleted indicates the module finished successfully.
	ModuleStatusCompleted ModuleStatus = "completed"
	// ModuleStatusFailed indicates the module hit an unrecoverable failure.
	ModuleStatusFailed ModuleStatus = "failed"
	// ModuleStatusCancelled indicates the module was cancelled.
	ModuleStatusCancelled ModuleStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s ModuleStatus) Valid() bool {
	switch s {
	case ModuleStatusPlanned, ModuleStatusReady, ModuleStatusInProgress,
		ModuleStatusWaitingDependency, ModuleStatusPaused,
		ModuleStatusCompleted, ModuleStatusFailed, ModuleStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions are allowed from this status.
func (s ModuleStatus) Terminal() bool {
	switch s {
	case ModuleStatusCompleted, ModuleStatusFailed, ModuleStatusCancelled:
		return true
	default:
		return false
	}
}

// Module describes one unit of project work with declared dependencies.
// Dependencies are immutable once the module is registered.
type Module struct {
	// Name is the unique identifier for this module.
	Name string `json:"name" yaml:"name"`
	// Type categorizes the module (backend, frontend, etc.).
	Type ModuleType `json:"type" yaml:"type"`
	// Description summarizes what this module delivers.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// DependsOn lists names of modules that must complete first.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	// Roles lists the agent roles needed to execute this module.
	Roles []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	// Complexity rates the module difficulty from 1 to 10. Zero means
	// unrated; routing falls back to its defaults.
	Complexity int `json:"complexity" yaml:"complexity"`
	// EstimatedHours is the rough effort estimate for the module.
	EstimatedHours int `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	// TechStack lists declared technology tags.
	TechStack []string `json:"tech_stack,omitempty" yaml:"tech_stack,omitempty"`
	// APIs lists interface endpoints or functionality this module exposes.
	APIs []string `json:"apis,omitempty" yaml:"apis,omitempty"`
	// Entities lists persisted entities (tables, collections) this module owns.
	Entities []string `json:"entities,omitempty" yaml:"entities,omitempty"`
	// CreatedAt is when the module was registered.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`
}

// Validate checks that the module's required fields are well formed.
// Modules fail fast at registration rather than at use time.
func (m *Module) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("module name is required")
	}
	if m.Type != "" && !m.Type.Valid() {
		return fmt.Errorf("module %s: unknown type %q", m.Name, m.Type)
	}
	if m.Complexity != 0 && (m.Complexity < 1 || m.Complexity > 10) {
		return fmt.Errorf("module %s: complexity %d out of range 1-10", m.Name, m.Complexity)
	}
	for _, dep := range m.DependsOn {
		if dep == m.Name {
			return fmt.Errorf("module %s: depends on itself", m.Name)
		}
	}
	return nil
}
