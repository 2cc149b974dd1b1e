package registry

import "foreman/pkg/models"

// Default returns the built-in capability table.
// Registration order matters: the router breaks score ties by picking
// the first registered record.
func Default() *Registry {
	reg := New()

	// Free tier - local models.
	reg.Add(&Record{
		Model:    "deepseek-r1:14b",
		CostTier: models.TierFree,
		Specializations: []string{
			"backend_implementation", "api_design", "database_schema",
			"code_optimization", "debugging", "algorithm_implementation",
			"system_architecture", "performance_tuning",
		},
		QualityScores: map[string]float64{
			"backend_development":      0.9,
			"algorithm_implementation": 0.95,
			"code_optimization":        0.9,
			"debugging":                0.85,
			"api_design":               0.85,
			"frontend_development":     0.6,
			"ui_design":                0.4,
			"content_creation":         0.5,
		},
		ContextWindow: 32768,
		SpeedRating:   0.8,
		Reliability:   0.9,
	})

	reg.Add(&Record{
		Model:    "llama3.2:latest",
		CostTier: models.TierFree,
		Specializations: []string{
			"general_coding", "documentation", "testing",
			"code_review", "simple_frontend", "scripting",
		},
		QualityScores: map[string]float64{
			"general_coding":           0.8,
			"documentation":            0.85,
			"testing":                  0.8,
			"code_review":              0.75,
			"simple_frontend":          0.7,
			"backend_development":      0.7,
			"algorithm_implementation": 0.7,
			"ui_design":                0.5,
		},
		ContextWindow: 8192,
		SpeedRating:   0.9,
		Reliability:   0.8,
	})

	reg.Add(&Record{
		Model:    "qwen2.5-coder:7b",
		CostTier: models.TierFree,
		Specializations: []string{
			"devops", "infrastructure", "docker", "kubernetes",
			"ci_cd", "automation", "configuration",
		},
		QualityScores: map[string]float64{
			"devops":               0.9,
			"infrastructure":       0.85,
			"automation":           0.85,
			"configuration":        0.8,
			"backend_development":  0.7,
			"testing":              0.75,
			"frontend_development": 0.5,
		},
		ContextWindow: 16384,
		SpeedRating:   0.85,
		Reliability:   0.85,
	})

	// Medium tier - premium cloud models.
	reg.Add(&Record{
		Model:    "claude-3-5-sonnet",
		CostTier: models.TierMedium,
		Specializations: []string{
			"frontend_development", "ui_design", "user_experience",
			"complex_logic", "analysis", "planning", "architecture_review",
			"security_analysis", "code_quality",
		},
		QualityScores: map[string]float64{
			"frontend_development":     0.95,
			"ui_design":                0.9,
			"user_experience":          0.9,
			"analysis":                 0.95,
			"planning":                 0.9,
			"security_analysis":        0.9,
			"code_quality":             0.95,
			"backend_development":      0.85,
			"algorithm_implementation": 0.85,
		},
		ContextWindow: 200000,
		SpeedRating:   0.7,
		Reliability:   0.95,
	})

	reg.Add(&Record{
		Model:    "gpt-4o",
		CostTier: models.TierMedium,
		Specializations: []string{
			"creative_solutions", "complex_problem_solving",
			"integration", "full_stack", "mobile_development",
			"user_interaction", "business_logic",
		},
		QualityScores: map[string]float64{
			"creative_solutions":      0.9,
			"complex_problem_solving": 0.9,
			"integration":             0.85,
			"mobile_development":      0.85,
			"full_stack":              0.8,
			"frontend_development":    0.8,
			"backend_development":     0.8,
			"ui_design":               0.75,
		},
		ContextWindow: 128000,
		SpeedRating:   0.75,
		Reliability:   0.9,
	})

	return reg
}
