package state

import (
	"io"

	"foreman/internal/modstate"
	"foreman/pkg/models"
)

// ModuleStore handles module snapshot persistence.
type ModuleStore interface {
	SaveModuleState(st *modstate.ModuleState) error
	GetModule(name string) (*ModuleRecord, error)
	ListModules(status *models.ModuleStatus) ([]ModuleRecord, error)
}

// TaskStore handles task persistence.
type TaskStore interface {
	SaveTask(t *models.Task) error
	GetTask(id string) (*models.Task, error)
	ListTasksByModule(moduleName string) ([]models.Task, error)
}

// RunStore handles run summary persistence.
type RunStore interface {
	CreateRun(r *Run) error
	FinishRun(r *Run) error
	ListRuns() ([]Run, error)
}

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the full persistence surface. It composes focused
// sub-interfaces so callers can depend on just the slice they use.
type Store interface {
	io.Closer
	Migrator
	ModuleStore
	TaskStore
	RunStore
}

// Compile-time verification that DB implements all interfaces, including
// the state manager's persistence hook.
var (
	_ Store          = (*DB)(nil)
	_ modstate.Store = (*DB)(nil)
)
