package registry

import (
	"os"
	"path/filepath"
	"testing"

	"foreman/pkg/models"
)

func TestDefaultRegistryOrder(t *testing.T) {
	reg := Default()

	want := []string{
		"deepseek-r1:14b",
		"llama3.2:latest",
		"qwen2.5-coder:7b",
		"claude-3-5-sonnet",
		"gpt-4o",
	}

	names := reg.Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected record %d to be %s, got %s", i, name, names[i])
		}
	}
}

func TestRegistryGet(t *testing.T) {
	reg := Default()

	rec, ok := reg.Get("qwen2.5-coder:7b")
	if !ok {
		t.Fatal("expected qwen2.5-coder:7b to be registered")
	}
	if rec.CostTier != models.TierFree {
		t.Errorf("expected free tier, got %s", rec.CostTier)
	}
	if !rec.Specialized("devops") {
		t.Error("expected qwen2.5-coder:7b to be specialized in devops")
	}

	if _, ok := reg.Get("nonexistent"); ok {
		t.Error("expected lookup of unknown model to fail")
	}
}

func TestRecordQualityDefault(t *testing.T) {
	rec := &Record{Model: "m", QualityScores: map[string]float64{"testing": 0.8}}

	if q := rec.Quality("testing"); q != 0.8 {
		t.Errorf("expected scored category to return 0.8, got %.2f", q)
	}
	if q := rec.Quality("unscored"); q != 0.5 {
		t.Errorf("expected unscored category to default to 0.5, got %.2f", q)
	}
}

func TestRegistryAddValidation(t *testing.T) {
	reg := New()

	if err := reg.Add(&Record{Model: "", Reliability: 0.5}); err == nil {
		t.Error("expected error for empty model name")
	}
	if err := reg.Add(&Record{Model: "m", CostTier: models.CostTier(7), Reliability: 0.5}); err == nil {
		t.Error("expected error for invalid cost tier")
	}
	if err := reg.Add(&Record{Model: "m", Reliability: 1.5}); err == nil {
		t.Error("expected error for out-of-range reliability")
	}
}

func TestRegistryAddReplacesKeepingOrder(t *testing.T) {
	reg := New()
	reg.Add(&Record{Model: "a", Reliability: 0.5})
	reg.Add(&Record{Model: "b", Reliability: 0.5})
	reg.Add(&Record{Model: "a", Reliability: 0.9})

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected order [a b], got %v", names)
	}

	rec, _ := reg.Get("a")
	if rec.Reliability != 0.9 {
		t.Errorf("expected replaced record, got reliability %.2f", rec.Reliability)
	}
}

func TestLoadFile(t *testing.T) {
	content := `agents:
  - model: local-coder
    cost_tier: free
    specializations: [backend_development]
    quality_scores:
      backend_development: 0.85
    context_window: 16384
    speed_rating: 0.8
    reliability: 0.9
  - model: cloud-premium
    cost_tier: high
    quality_scores:
      frontend_development: 0.95
    reliability: 0.95
`
	path := filepath.Join(t.TempDir(), "agents.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if reg.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", reg.Len())
	}

	rec, ok := reg.Get("cloud-premium")
	if !ok {
		t.Fatal("expected cloud-premium to be loaded")
	}
	if rec.CostTier != models.TierHigh {
		t.Errorf("expected high tier, got %s", rec.CostTier)
	}

	names := reg.Names()
	if names[0] != "local-coder" {
		t.Errorf("expected file order preserved, got first record %s", names[0])
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	badTier := filepath.Join(dir, "bad.yaml")
	os.WriteFile(badTier, []byte("agents:\n  - model: m\n    cost_tier: premium\n    reliability: 0.5\n"), 0644)
	if _, err := LoadFile(badTier); err == nil {
		t.Error("expected error for unknown cost tier")
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("agents: []\n"), 0644)
	if _, err := LoadFile(empty); err == nil {
		t.Error("expected error for empty agent list")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	reg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reg.Len() != Default().Len() {
		t.Errorf("expected default registry, got %d records", reg.Len())
	}
}
