// Package registry provides the static capability table of available worker models.
// Records describe cost tier, specializations, and per-category quality; they are
// configuration data, not live instances.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"foreman/pkg/models"
)

// Record describes one worker model's capabilities.
type Record struct {
	// Model is the unique model/worker name.
	Model string `yaml:"model"`
	// CostTier ranks how expensive the model is to run.
	CostTier models.CostTier `yaml:"-"`
	// Specializations lists task categories the model is tuned for.
	Specializations []string `yaml:"specializations"`
	// QualityScores maps task category to expected quality (0-1).
	QualityScores map[string]float64 `yaml:"quality_scores"`
	// ContextWindow is the model's context size in tokens.
	ContextWindow int `yaml:"context_window"`
	// SpeedRating is the relative generation speed (0-1).
	SpeedRating float64 `yaml:"speed_rating"`
	// Reliability is the model's reliability score (0-1), applied as a
	// multiplier to combined routing scores.
	Reliability float64 `yaml:"reliability"`
}

// Specialized returns true if the record lists the given category
// as a specialization.
func (r *Record) Specialized(category string) bool {
	for _, s := range r.Specializations {
		if s == category {
			return true
		}
	}
	return false
}

// Quality returns the record's quality score for a category, or the
// neutral default 0.5 when the category is unscored.
func (r *Record) Quality(category string) float64 {
	if score, ok := r.QualityScores[category]; ok {
		return score
	}
	return 0.5
}

// Registry is a read-only lookup table of capability records.
// Registration order is preserved: the router's tie-break rule picks the
// first registered record, so order is part of the contract.
type Registry struct {
	records map[string]*Record
	order   []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Add registers a record. Re-adding a name replaces the record but
// keeps its original position.
func (r *Registry) Add(rec *Record) error {
	if rec.Model == "" {
		return fmt.Errorf("capability record requires a model name")
	}
	if !rec.CostTier.Valid() {
		return fmt.Errorf("capability record %s: invalid cost tier %d", rec.Model, rec.CostTier)
	}
	if rec.Reliability < 0 || rec.Reliability > 1 {
		return fmt.Errorf("capability record %s: reliability %.2f out of range 0-1", rec.Model, rec.Reliability)
	}
	if _, exists := r.records[rec.Model]; !exists {
		r.order = append(r.order, rec.Model)
	}
	r.records[rec.Model] = rec
	return nil
}

// Get returns the record for a model name.
func (r *Registry) Get(name string) (*Record, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

// Names returns all model names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	return len(r.records)
}

// recordFile is the on-disk YAML shape of a capability record.
// The cost tier is a name ("free", "low", "medium", "high") in config.
type recordFile struct {
	Record   `yaml:",inline"`
	CostTier string `yaml:"cost_tier"`
}

// LoadFile loads a registry from a YAML file containing a list of records.
// The file fully replaces the built-in defaults.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capability config: %w", err)
	}

	var doc struct {
		Agents []recordFile `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse capability config %s: %w", path, err)
	}
	if len(doc.Agents) == 0 {
		return nil, fmt.Errorf("capability config %s defines no agents", path)
	}

	reg := New()
	for i := range doc.Agents {
		rf := &doc.Agents[i]
		tier, ok := models.ParseCostTier(rf.CostTier)
		if !ok {
			return nil, fmt.Errorf("capability config %s: agent %s has unknown cost tier %q", path, rf.Model, rf.CostTier)
		}
		rec := rf.Record
		rec.CostTier = tier
		if err := reg.Add(&rec); err != nil {
			return nil, fmt.Errorf("capability config %s: %w", path, err)
		}
	}
	return reg, nil
}

// Load returns the registry from the given config path, or the built-in
// defaults when the path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
