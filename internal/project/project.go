// Package project loads project definitions: a named set of modules with
// declared dependencies, read from a YAML file.
package project

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"foreman/pkg/models"
)

// Definition is a project as declared on disk.
type Definition struct {
	// Name identifies the project.
	Name string `yaml:"name"`
	// Description summarizes what the project delivers.
	Description string `yaml:"description,omitempty"`
	// Modules lists the project's modules in declaration order.
	Modules []*models.Module `yaml:"modules"`
}

// ModuleSet returns the definition's modules keyed by name, the shape the
// resolver and state manager consume.
func (d *Definition) ModuleSet() map[string]*models.Module {
	set := make(map[string]*models.Module, len(d.Modules))
	for _, mod := range d.Modules {
		set[mod.Name] = mod
	}
	return set
}

// Load reads and validates a project definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return Parse(data)
}

// Parse validates a project definition from YAML bytes.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}

	if def.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if len(def.Modules) == 0 {
		return nil, fmt.Errorf("project %s defines no modules", def.Name)
	}

	seen := make(map[string]bool, len(def.Modules))
	now := time.Now()
	for _, mod := range def.Modules {
		if err := mod.Validate(); err != nil {
			return nil, fmt.Errorf("project %s: %w", def.Name, err)
		}
		if seen[mod.Name] {
			return nil, fmt.Errorf("project %s: duplicate module %q", def.Name, mod.Name)
		}
		seen[mod.Name] = true
		if mod.Type == "" {
			mod.Type = models.ModuleTypeBackend
		}
		if mod.CreatedAt.IsZero() {
			mod.CreatedAt = now
		}
	}

	return &def, nil
}
