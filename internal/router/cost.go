package router

import (
	"fmt"

	"foreman/pkg/models"
)

// costPer1KTokens is the approximate USD rate per thousand tokens by tier.
var costPer1KTokens = map[models.CostTier]float64{
	models.TierFree:   0.0,
	models.TierLow:    0.001,
	models.TierMedium: 0.003,
	models.TierHigh:   0.01,
}

// CostEstimate is the projected cost of running a task on a model.
type CostEstimate struct {
	Model           string          `json:"model"`
	EstimatedTokens int             `json:"estimated_tokens"`
	CostTier        models.CostTier `json:"cost_tier"`
	CostUSD         float64         `json:"estimated_cost_usd"`
	Local           bool            `json:"is_local"`
	ContextWindow   int             `json:"context_window"`
}

// EstimateCost projects the USD cost of sending the given token count to a
// registered model. Free-tier models always estimate to zero.
func (r *Router) EstimateCost(model string, estimatedTokens int) (CostEstimate, error) {
	rec, ok := r.registry.Get(model)
	if !ok {
		return CostEstimate{}, fmt.Errorf("router: unknown model %q", model)
	}

	return CostEstimate{
		Model:           model,
		EstimatedTokens: estimatedTokens,
		CostTier:        rec.CostTier,
		CostUSD:         float64(estimatedTokens) / 1000 * costPer1KTokens[rec.CostTier],
		Local:           rec.CostTier == models.TierFree,
		ContextWindow:   rec.ContextWindow,
	}, nil
}
