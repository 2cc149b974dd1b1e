package models

// CostTier ranks how expensive a capability record is to run.
// Tiers are ordered: free < low < medium < high.
type CostTier int

const (
	// TierFree is for local models with no per-token cost.
	TierFree CostTier = 0
	// TierLow is for basic cloud models.
	TierLow CostTier = 1
	// TierMedium is for standard premium cloud models.
	TierMedium CostTier = 2
	// TierHigh is for the most expensive cloud models.
	TierHigh CostTier = 3
)

// MaxTier is the highest cost tier, used to normalize cost scores.
const MaxTier = TierHigh

// Valid returns true if the tier is a known value.
func (t CostTier) Valid() bool {
	return t >= TierFree && t <= TierHigh
}

// String returns the tier name.
func (t CostTier) String() string {
	switch t {
	case TierFree:
		return "free"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseCostTier converts a tier name to a CostTier.
// Unknown names return TierFree and false.
func ParseCostTier(s string) (CostTier, bool) {
	switch s {
	case "free":
		return TierFree, true
	case "low":
		return TierLow, true
	case "medium":
		return TierMedium, true
	case "high":
		return TierHigh, true
	default:
		return TierFree, false
	}
}

// Complexity is the ordinal difficulty level of a task description.
type Complexity int

const (
	// ComplexitySimple covers routine, template, and boilerplate work.
	ComplexitySimple Complexity = 1
	// ComplexityMedium covers standard business logic work.
	ComplexityMedium Complexity = 2
	// ComplexityComplex covers architecture, optimization, and advanced debugging.
	ComplexityComplex Complexity = 3
	// ComplexityCritical covers security-critical and fault-tolerant work.
	ComplexityCritical Complexity = 4
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	return c >= ComplexitySimple && c <= ComplexityCritical
}

// String returns the complexity name.
func (c Complexity) String() string {
	switch c {
	case ComplexitySimple:
		return "simple"
	case ComplexityMedium:
		return "medium"
	case ComplexityComplex:
		return "complex"
	case ComplexityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// BudgetPreference is the cost/quality weighting policy used by the router.
type BudgetPreference string

const (
	// BudgetCostOptimized weights cost heavily over quality.
	BudgetCostOptimized BudgetPreference = "cost_optimized"
	// BudgetBalanced weights quality slightly over cost.
	BudgetBalanced BudgetPreference = "balanced"
	// BudgetQualityFirst weights quality heavily over cost.
	BudgetQualityFirst BudgetPreference = "quality_first"
)

// Valid returns true if the preference is a known value.
func (p BudgetPreference) Valid() bool {
	switch p {
	case BudgetCostOptimized, BudgetBalanced, BudgetQualityFirst:
		return true
	default:
		return false
	}
}
