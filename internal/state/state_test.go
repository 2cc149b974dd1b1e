package state

import (
	"path/filepath"
	"testing"
	"time"

	"foreman/internal/modstate"
	"foreman/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestProjectDBPath(t *testing.T) {
	got := ProjectDBPath("/tmp/proj")
	want := filepath.Join("/tmp/proj", ".foreman", "state.db")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestSaveModuleStateUpsert(t *testing.T) {
	db := openTestDB(t)

	started := time.Now()
	st := &modstate.ModuleState{
		Spec:           &models.Module{Name: "auth", Type: models.ModuleTypeBackend, Description: "auth service"},
		Status:         models.ModuleStatusInProgress,
		Progress:       40,
		AssignedAgents: []string{"agent-a"},
		StartedAt:      &started,
	}
	if err := db.SaveModuleState(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	st.Status = models.ModuleStatusCompleted
	st.Progress = 100
	completed := time.Now()
	st.CompletedAt = &completed
	if err := db.SaveModuleState(st); err != nil {
		t.Fatalf("second save: %v", err)
	}

	rec, err := db.GetModule("auth")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("expected module record")
	}
	if rec.Status != models.ModuleStatusCompleted {
		t.Errorf("expected completed, got %s", rec.Status)
	}
	if rec.Progress != 100 {
		t.Errorf("expected progress 100, got %v", rec.Progress)
	}
	if len(rec.AssignedAgents) != 1 || rec.AssignedAgents[0] != "agent-a" {
		t.Errorf("expected assigned agents preserved, got %v", rec.AssignedAgents)
	}
	if rec.StartedAt == nil || rec.CompletedAt == nil {
		t.Error("expected timestamps persisted")
	}
}

func TestGetModuleMissing(t *testing.T) {
	db := openTestDB(t)
	rec, err := db.GetModule("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing module, got %+v", rec)
	}
}

func TestListModulesByStatus(t *testing.T) {
	db := openTestDB(t)

	for _, m := range []*modstate.ModuleState{
		{Spec: &models.Module{Name: "a", Type: models.ModuleTypeBackend}, Status: models.ModuleStatusCompleted},
		{Spec: &models.Module{Name: "b", Type: models.ModuleTypeBackend}, Status: models.ModuleStatusFailed, Error: "boom"},
		{Spec: &models.Module{Name: "c", Type: models.ModuleTypeFrontend}, Status: models.ModuleStatusCompleted},
	} {
		if err := db.SaveModuleState(m); err != nil {
			t.Fatalf("save %s: %v", m.Spec.Name, err)
		}
	}

	status := models.ModuleStatusCompleted
	completed, err := db.ListModules(&status)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(completed) != 2 || completed[0].Name != "a" || completed[1].Name != "c" {
		t.Errorf("expected [a c] completed, got %+v", completed)
	}

	all, err := db.ListModules(nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 modules, got %d", len(all))
	}
}

func TestTaskRoundTrip(t *testing.T) {
	db := openTestDB(t)

	task := &models.Task{
		ID:          "auth-design-1234",
		ModuleName:  "auth",
		Category:    models.CategoryDesign,
		Description: "design: architecture and structure",
		Priority:    4,
		Status:      models.TaskStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := db.SaveTask(task); err != nil {
		t.Fatalf("save: %v", err)
	}

	task.Status = models.TaskStatusCompleted
	task.AssignedAgent = "agent-a"
	task.Result = "done"
	completed := time.Now()
	task.CompletedAt = &completed
	if err := db.SaveTask(task); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := db.GetTask("auth-design-1234")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected task")
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.Result != "done" || got.AssignedAgent != "agent-a" {
		t.Errorf("expected result and agent persisted, got %+v", got)
	}
	if got.CompletedAt == nil {
		t.Error("expected completed_at persisted")
	}
}

func TestListTasksByModuleOrder(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	for i, id := range []string{"low", "high", "mid"} {
		pri := []int{1, 3, 2}[i]
		task := &models.Task{
			ID: id, ModuleName: "auth", Category: models.CategoryImplement,
			Priority: pri, Status: models.TaskStatusPending, CreatedAt: now,
			DependsOn: []string{"dep-1"},
		}
		if err := db.SaveTask(task); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	tasks, err := db.ListTasksByModule("auth")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "high" || tasks[1].ID != "mid" || tasks[2].ID != "low" {
		t.Errorf("expected priority order [high mid low], got [%s %s %s]",
			tasks[0].ID, tasks[1].ID, tasks[2].ID)
	}
	if len(tasks[0].DependsOn) != 1 || tasks[0].DependsOn[0] != "dep-1" {
		t.Errorf("expected depends_on round-tripped, got %v", tasks[0].DependsOn)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	run := &Run{ID: "run-1", StartedAt: time.Now(), ModulesTotal: 3, Status: RunActive}
	if err := db.CreateRun(run); err != nil {
		t.Fatalf("create: %v", err)
	}

	finished := time.Now()
	run.FinishedAt = &finished
	run.Phases = 2
	run.ModulesFailed = 1
	run.Status = RunFailed
	if err := db.FinishRun(run); err != nil {
		t.Fatalf("finish: %v", err)
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != RunFailed || runs[0].Phases != 2 || runs[0].ModulesFailed != 1 {
		t.Errorf("expected finished run persisted, got %+v", runs[0])
	}
	if runs[0].FinishedAt == nil {
		t.Error("expected finished_at persisted")
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := openTestDB(t)

	old := &Run{ID: "old", StartedAt: time.Now().Add(-48 * time.Hour), Status: RunCompleted}
	recent := &Run{ID: "recent", StartedAt: time.Now(), Status: RunCompleted}
	active := &Run{ID: "active-old", StartedAt: time.Now().Add(-48 * time.Hour), Status: RunActive}
	for _, r := range []*Run{old, recent, active} {
		if err := db.CreateRun(r); err != nil {
			t.Fatalf("create %s: %v", r.ID, err)
		}
	}

	purged, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Errorf("expected 1 run purged, got %d", purged)
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs remaining, got %d", len(runs))
	}
}
