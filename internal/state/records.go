package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"foreman/internal/modstate"
	"foreman/pkg/models"
)

// RunStatus represents the status of a project run.
type RunStatus string

const (
	RunActive    RunStatus = "active"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// ModuleRecord is a persisted module state snapshot.
type ModuleRecord struct {
	Name           string              `json:"name"`
	Type           string              `json:"type"`
	Description    string              `json:"description"`
	Status         models.ModuleStatus `json:"status"`
	Progress       float64             `json:"progress"`
	AssignedAgents []string            `json:"assigned_agents"`
	Blockers       []string            `json:"blockers"`
	Error          string              `json:"error"`
	StartedAt      *time.Time          `json:"started_at"`
	CompletedAt    *time.Time          `json:"completed_at"`
}

// Run summarizes one project execution.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	Phases        int        `json:"phases"`
	ModulesTotal  int        `json:"modules_total"`
	ModulesFailed int        `json:"modules_failed"`
	Status        RunStatus  `json:"status"`
}

// Module snapshot operations

// SaveModuleState upserts a module state snapshot. It satisfies the
// state manager's persistence hook, so every transition lands here.
func (db *DB) SaveModuleState(st *modstate.ModuleState) error {
	agents, _ := json.Marshal(st.AssignedAgents)
	blockers, _ := json.Marshal(st.Blockers)

	var startedAt, completedAt *string
	if st.StartedAt != nil {
		s := formatTime(*st.StartedAt)
		startedAt = &s
	}
	if st.CompletedAt != nil {
		s := formatTime(*st.CompletedAt)
		completedAt = &s
	}

	_, err := db.Exec(`
		INSERT INTO modules (name, type, description, status, progress, assigned_agents, blockers, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			type = excluded.type,
			description = excluded.description,
			status = excluded.status,
			progress = excluded.progress,
			assigned_agents = excluded.assigned_agents,
			blockers = excluded.blockers,
			error = excluded.error,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, st.Spec.Name, string(st.Spec.Type), st.Spec.Description, string(st.Status), st.Progress,
		string(agents), string(blockers), st.Error, startedAt, completedAt)
	if err != nil {
		return fmt.Errorf("save module state: %w", err)
	}
	return nil
}

// GetModule retrieves a module snapshot by name. Returns nil when the
// module has never been saved.
func (db *DB) GetModule(name string) (*ModuleRecord, error) {
	row := db.QueryRow(`
		SELECT name, type, description, status, progress, assigned_agents, blockers, error, started_at, completed_at
		FROM modules WHERE name = ?
	`, name)

	rec, err := scanModule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	return rec, nil
}

// ListModules lists module snapshots, optionally filtered by status.
func (db *DB) ListModules(status *models.ModuleStatus) ([]ModuleRecord, error) {
	var rows *sql.Rows
	var err error

	if status != nil {
		rows, err = db.Query(`
			SELECT name, type, description, status, progress, assigned_agents, blockers, error, started_at, completed_at
			FROM modules WHERE status = ? ORDER BY name
		`, string(*status))
	} else {
		rows, err = db.Query(`
			SELECT name, type, description, status, progress, assigned_agents, blockers, error, started_at, completed_at
			FROM modules ORDER BY name
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var records []ModuleRecord
	for rows.Next() {
		rec, err := scanModule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}

// DeleteModules clears all module snapshots.
func (db *DB) DeleteModules() error {
	_, err := db.Exec("DELETE FROM modules")
	if err != nil {
		return fmt.Errorf("delete modules: %w", err)
	}
	return nil
}

func scanModule(scan func(...any) error) (*ModuleRecord, error) {
	var rec ModuleRecord
	var description, agents, blockers, errMsg sql.NullString
	var startedAt, completedAt sql.NullString

	err := scan(&rec.Name, &rec.Type, &description, &rec.Status, &rec.Progress,
		&agents, &blockers, &errMsg, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		rec.Description = description.String
	}
	if agents.Valid {
		json.Unmarshal([]byte(agents.String), &rec.AssignedAgents)
	}
	if blockers.Valid {
		json.Unmarshal([]byte(blockers.String), &rec.Blockers)
	}
	if errMsg.Valid {
		rec.Error = errMsg.String
	}
	rec.StartedAt = parseNullableTime(startedAt)
	rec.CompletedAt = parseNullableTime(completedAt)
	return &rec, nil
}

// Task operations

// SaveTask upserts a task's current state.
func (db *DB) SaveTask(t *models.Task) error {
	dependsOn, _ := json.Marshal(t.DependsOn)

	var completedAt *string
	if t.CompletedAt != nil {
		s := formatTime(*t.CompletedAt)
		completedAt = &s
	}

	_, err := db.Exec(`
		INSERT INTO tasks (id, module_name, category, description, priority, status, depends_on, assigned_agent, result, error, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			assigned_agent = excluded.assigned_agent,
			result = excluded.result,
			error = excluded.error,
			completed_at = excluded.completed_at
	`, t.ID, t.ModuleName, string(t.Category), t.Description, t.Priority, string(t.Status),
		string(dependsOn), t.AssignedAgent, t.Result, t.Error, formatTime(t.CreatedAt), completedAt)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID. Returns nil when not found.
func (db *DB) GetTask(id string) (*models.Task, error) {
	row := db.QueryRow(`
		SELECT id, module_name, category, description, priority, status, depends_on, assigned_agent, result, error, created_at, completed_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasksByModule lists all persisted tasks for a module, highest
// priority first.
func (db *DB) ListTasksByModule(moduleName string) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, module_name, category, description, priority, status, depends_on, assigned_agent, result, error, created_at, completed_at
		FROM tasks WHERE module_name = ? ORDER BY priority DESC, created_at
	`, moduleName)
	if err != nil {
		return nil, fmt.Errorf("list tasks by module: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func scanTask(scan func(...any) error) (*models.Task, error) {
	var t models.Task
	var description, dependsOn, assignedAgent, result, errMsg sql.NullString
	var createdAt string
	var completedAt sql.NullString

	err := scan(&t.ID, &t.ModuleName, &t.Category, &description, &t.Priority, &t.Status,
		&dependsOn, &assignedAgent, &result, &errMsg, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = description.String
	}
	if dependsOn.Valid {
		json.Unmarshal([]byte(dependsOn.String), &t.DependsOn)
	}
	if assignedAgent.Valid {
		t.AssignedAgent = assignedAgent.String
	}
	if result.Valid {
		t.Result = result.String
	}
	if errMsg.Valid {
		t.Error = errMsg.String
	}
	t.CreatedAt, _ = parseTime(createdAt)
	t.CompletedAt = parseNullableTime(completedAt)
	return &t, nil
}

// Run operations

// CreateRun records the start of a project run.
func (db *DB) CreateRun(r *Run) error {
	_, err := db.Exec(`
		INSERT INTO runs (id, started_at, finished_at, phases, modules_total, modules_failed, status)
		VALUES (?, ?, NULL, ?, ?, ?, ?)
	`, r.ID, formatTime(r.StartedAt), r.Phases, r.ModulesTotal, r.ModulesFailed, string(r.Status))
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

// FinishRun marks a run finished with its final counts.
func (db *DB) FinishRun(r *Run) error {
	var finishedAt *string
	if r.FinishedAt != nil {
		s := formatTime(*r.FinishedAt)
		finishedAt = &s
	}

	_, err := db.Exec(`
		UPDATE runs SET finished_at = ?, phases = ?, modules_total = ?, modules_failed = ?, status = ?
		WHERE id = ?
	`, finishedAt, r.Phases, r.ModulesTotal, r.ModulesFailed, string(r.Status), r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns lists runs, most recent first.
func (db *DB) ListRuns() ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, started_at, finished_at, phases, modules_total, modules_failed, status
		FROM runs ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &r.Phases, &r.ModulesTotal, &r.ModulesFailed, &r.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = parseTime(startedAt)
		r.FinishedAt = parseNullableTime(finishedAt)
		runs = append(runs, r)
	}
	return runs, nil
}
