package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foreman/pkg/models"
)

const sampleProject = `name: shop
description: storefront with checkout
modules:
  - name: auth
    type: backend
    description: authentication service
    complexity: 5
  - name: api
    type: backend
    depends_on: [auth]
    complexity: 6
  - name: web
    type: frontend
    depends_on: [api]
    roles: [frontend]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(sampleProject), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if def.Name != "shop" {
		t.Errorf("expected name shop, got %q", def.Name)
	}
	if len(def.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(def.Modules))
	}
	if def.Modules[1].DependsOn[0] != "auth" {
		t.Errorf("expected api to depend on auth, got %v", def.Modules[1].DependsOn)
	}
	if def.Modules[2].Type != models.ModuleTypeFrontend {
		t.Errorf("expected web frontend, got %s", def.Modules[2].Type)
	}
	if def.Modules[0].CreatedAt.IsZero() {
		t.Error("expected created_at stamped on load")
	}
}

func TestModuleSet(t *testing.T) {
	def, err := Parse([]byte(sampleProject))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	set := def.ModuleSet()
	if len(set) != 3 {
		t.Fatalf("expected 3 modules in set, got %d", len(set))
	}
	if set["api"] == nil || set["api"].Complexity != 6 {
		t.Errorf("expected api with complexity 6, got %+v", set["api"])
	}
}

func TestParseDefaultsType(t *testing.T) {
	def, err := Parse([]byte("name: p\nmodules:\n  - name: core\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if def.Modules[0].Type != models.ModuleTypeBackend {
		t.Errorf("expected backend default type, got %s", def.Modules[0].Type)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing name", "modules:\n  - name: a\n", "project name is required"},
		{"no modules", "name: p\n", "defines no modules"},
		{"duplicate module", "name: p\nmodules:\n  - name: a\n  - name: a\n", `duplicate module "a"`},
		{"bad type", "name: p\nmodules:\n  - name: a\n    type: quantum\n", "unknown type"},
		{"self dependency", "name: p\nmodules:\n  - name: a\n    depends_on: [a]\n", "depends on itself"},
		{"invalid yaml", "name: [\n", "parse project file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
