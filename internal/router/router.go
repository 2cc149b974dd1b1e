// Package router selects the best worker model for a task by scoring every
// capability record against the task's classified category and complexity,
// weighted by a budget preference.
package router

import (
	"errors"
	"fmt"
	"strings"

	"foreman/internal/classify"
	"foreman/internal/registry"
	"foreman/pkg/models"
)

// ErrEmptyRegistry is returned when selection runs against a registry with
// no capability records. An empty registry is a caller error, not a
// routable condition.
var ErrEmptyRegistry = errors.New("router: capability registry is empty")

// Selection is the outcome of routing one task.
type Selection struct {
	// Model is the winning capability record's name.
	Model string
	// Quality is the winner's quality score for the task category, after
	// complexity bonuses. This is the expected quality, not the combined
	// routing score.
	Quality float64
	// Reasoning is a human-readable justification for the pick.
	Reasoning string
	// Category is the classified task category.
	Category string
	// Complexity is the classified task complexity.
	Complexity models.Complexity
}

// Weights holds the routing score constants. The defaults are tuning
// values carried over from production use, not derived invariants, so
// they are configuration rather than code.
type Weights struct {
	// SimpleFreeBonus is added to quality for free-tier records on
	// simple tasks.
	SimpleFreeBonus float64 `mapstructure:"simple_free_bonus"`
	// CriticalPremiumBonus is added to quality for medium/high-tier
	// records on critical tasks.
	CriticalPremiumBonus float64 `mapstructure:"critical_premium_bonus"`
	// SpecializationBonus is added to the combined score when the task
	// category is one of the record's specializations.
	SpecializationBonus float64 `mapstructure:"specialization_bonus"`
	// CostOptimizedQuality/Cost weight the combined score under the
	// cost_optimized preference; likewise for the other two pairs.
	CostOptimizedQuality float64 `mapstructure:"cost_optimized_quality"`
	CostOptimizedCost    float64 `mapstructure:"cost_optimized_cost"`
	QualityFirstQuality  float64 `mapstructure:"quality_first_quality"`
	QualityFirstCost     float64 `mapstructure:"quality_first_cost"`
	BalancedQuality      float64 `mapstructure:"balanced_quality"`
	BalancedCost         float64 `mapstructure:"balanced_cost"`
}

// DefaultWeights returns the current default scoring constants.
func DefaultWeights() Weights {
	return Weights{
		SimpleFreeBonus:      0.1,
		CriticalPremiumBonus: 0.05,
		SpecializationBonus:  0.1,
		CostOptimizedQuality: 0.2,
		CostOptimizedCost:    0.8,
		QualityFirstQuality:  0.8,
		QualityFirstCost:     0.2,
		BalancedQuality:      0.6,
		BalancedCost:         0.4,
	}
}

// Router scores capability records for tasks.
type Router struct {
	registry *registry.Registry
	weights  Weights
}

// New creates a Router over the given capability registry with the
// default scoring weights.
func New(reg *registry.Registry) *Router {
	return NewWithWeights(reg, DefaultWeights())
}

// NewWithWeights creates a Router with custom scoring weights.
func NewWithWeights(reg *registry.Registry, w Weights) *Router {
	return &Router{registry: reg, weights: w}
}

// Select classifies the task description and picks the best-scoring record.
//
// Scoring per record:
//  1. quality = record's score for the category (0.5 when unscored)
//  2. quality bonus for free-tier records on simple tasks and for
//     medium/high-tier records on critical tasks
//  3. costScore = 1 - tier/maxTier
//  4. combined = weighted sum of quality and costScore per preference
//     (default weights: cost_optimized 0.2/0.8, quality_first 0.8/0.2,
//     balanced 0.6/0.4)
//  5. specialization bonus on the combined score when the category is one
//     of the record's specializations
//  6. combined *= reliability
//
// Ties on the combined score go to the first registered record, so
// registration order is part of the routing contract.
func (r *Router) Select(description string, pref models.BudgetPreference) (Selection, error) {
	if r.registry.Len() == 0 {
		return Selection{}, ErrEmptyRegistry
	}

	cls := classify.Classify(description)

	var (
		bestName    string
		bestRec     *registry.Record
		bestScore   = -1.0
		bestQuality float64
	)

	for _, name := range r.registry.Names() {
		rec, _ := r.registry.Get(name)

		quality := rec.Quality(cls.Category)
		switch {
		case cls.Complexity == models.ComplexitySimple && rec.CostTier == models.TierFree:
			quality += r.weights.SimpleFreeBonus
		case cls.Complexity == models.ComplexityCritical && rec.CostTier >= models.TierMedium:
			quality += r.weights.CriticalPremiumBonus
		}

		costScore := 1.0 - float64(rec.CostTier)/float64(models.MaxTier)

		var combined float64
		switch pref {
		case models.BudgetCostOptimized:
			combined = r.weights.CostOptimizedQuality*quality + r.weights.CostOptimizedCost*costScore
		case models.BudgetQualityFirst:
			combined = r.weights.QualityFirstQuality*quality + r.weights.QualityFirstCost*costScore
		default:
			combined = r.weights.BalancedQuality*quality + r.weights.BalancedCost*costScore
		}

		if rec.Specialized(cls.Category) {
			combined += r.weights.SpecializationBonus
		}
		combined *= rec.Reliability

		if combined > bestScore {
			bestScore = combined
			bestName = name
			bestRec = rec
			bestQuality = quality
		}
	}

	return Selection{
		Model:      bestName,
		Quality:    bestQuality,
		Reasoning:  selectionReasoning(bestName, cls, pref, bestRec),
		Category:   cls.Category,
		Complexity: cls.Complexity,
	}, nil
}

// selectionReasoning builds the justification string from the factors that
// actually contributed to the pick.
func selectionReasoning(name string, cls classify.Result, pref models.BudgetPreference, rec *registry.Record) string {
	var reasons []string

	if rec.Specialized(cls.Category) {
		reasons = append(reasons, fmt.Sprintf("specialized in %s", cls.Category))
	}

	if rec.CostTier == models.TierFree {
		reasons = append(reasons, "free local model")
	} else if rec.CostTier == models.TierMedium && pref != models.BudgetCostOptimized {
		reasons = append(reasons, "best cost/quality balance")
	}

	if cls.Complexity == models.ComplexitySimple && rec.CostTier == models.TierFree {
		reasons = append(reasons, "suited to simple tasks")
	} else if cls.Complexity == models.ComplexityCritical && rec.CostTier >= models.TierMedium {
		reasons = append(reasons, "required for critical tasks")
	}

	if q := rec.Quality(cls.Category); q > 0.9 {
		reasons = append(reasons, "excellent expected quality")
	} else if q > 0.8 {
		reasons = append(reasons, "good expected quality")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "best overall score")
	}
	return fmt.Sprintf("selected %s: %s", name, strings.Join(reasons, ", "))
}
