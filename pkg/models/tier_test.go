package models

import "testing"

func TestCostTierOrdering(t *testing.T) {
	if !(TierFree < TierLow && TierLow < TierMedium && TierMedium < TierHigh) {
		t.Error("expected tiers to be ordered free < low < medium < high")
	}
	if MaxTier != TierHigh {
		t.Errorf("expected MaxTier to be high, got %s", MaxTier)
	}
}

func TestCostTierString(t *testing.T) {
	tests := []struct {
		tier CostTier
		want string
	}{
		{TierFree, "free"},
		{TierLow, "low"},
		{TierMedium, "medium"},
		{TierHigh, "high"},
		{CostTier(9), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("CostTier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestParseCostTier(t *testing.T) {
	for _, tier := range []CostTier{TierFree, TierLow, TierMedium, TierHigh} {
		got, ok := ParseCostTier(tier.String())
		if !ok || got != tier {
			t.Errorf("ParseCostTier(%q) = %v, %v, want %v, true", tier.String(), got, ok, tier)
		}
	}

	if _, ok := ParseCostTier("premium"); ok {
		t.Error("expected ParseCostTier to reject unknown name")
	}
}

func TestComplexityString(t *testing.T) {
	tests := []struct {
		c    Complexity
		want string
	}{
		{ComplexitySimple, "simple"},
		{ComplexityMedium, "medium"},
		{ComplexityComplex, "complex"},
		{ComplexityCritical, "critical"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Complexity(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestBudgetPreferenceValid(t *testing.T) {
	for _, p := range []BudgetPreference{BudgetCostOptimized, BudgetBalanced, BudgetQualityFirst} {
		if !p.Valid() {
			t.Errorf("expected preference %q to be valid", p)
		}
	}
	if BudgetPreference("cheap").Valid() {
		t.Error("expected unknown preference to be invalid")
	}
}
