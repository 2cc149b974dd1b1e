package router

import (
	"fmt"

	"foreman/pkg/models"
)

// moduleTask is one typical task shape for a module type.
type moduleTask struct {
	name     string
	category string
}

// moduleTaskShapes lists the typical tasks per module type, in execution
// order. Unknown module types fall back to the backend shape.
var moduleTaskShapes = map[models.ModuleType][]moduleTask{
	models.ModuleTypeBackend: {
		{"API design and implementation", "backend_development"},
		{"Database schema design", "backend_development"},
		{"Authentication implementation", "security_analysis"},
		{"Testing and validation", "testing"},
	},
	models.ModuleTypeFrontend: {
		{"UI component development", "frontend_development"},
		{"User interface design", "ui_design"},
		{"Component testing", "testing"},
		{"Integration with backend", "integration"},
	},
	models.ModuleTypeFullstack: {
		{"Backend API development", "backend_development"},
		{"Frontend implementation", "frontend_development"},
		{"Full-stack integration", "integration"},
		{"End-to-end testing", "testing"},
	},
	models.ModuleTypeQA: {
		{"Test planning and strategy", "testing"},
		{"Automated testing implementation", "testing"},
		{"Quality analysis", "code_quality"},
	},
	models.ModuleTypeDeploy: {
		{"Infrastructure setup", "devops"},
		{"CI/CD pipeline configuration", "devops"},
		{"Deployment automation", "automation"},
	},
}

// Recommendation pairs a typical module task with the model picked for it.
type Recommendation struct {
	Task      string
	Category  string
	Model     string
	Quality   float64
	Reasoning string
}

// RecommendForModule routes each of a module's typical tasks and returns
// the recommendations in task order. The module's complexity overrides the
// budget preference at the extremes: 8+ forces quality_first, 3 and below
// forces cost_optimized.
func (r *Router) RecommendForModule(mod *models.Module, pref models.BudgetPreference) ([]Recommendation, error) {
	shapes, ok := moduleTaskShapes[mod.Type]
	if !ok {
		shapes = moduleTaskShapes[models.ModuleTypeBackend]
	}

	effective := pref
	if mod.Complexity >= 8 {
		effective = models.BudgetQualityFirst
	} else if mod.Complexity <= 3 {
		effective = models.BudgetCostOptimized
	}

	recs := make([]Recommendation, 0, len(shapes))
	for _, shape := range shapes {
		desc := fmt.Sprintf("%s for %s", shape.name, mod.Description)
		sel, err := r.Select(desc, effective)
		if err != nil {
			return nil, err
		}
		recs = append(recs, Recommendation{
			Task:      shape.name,
			Category:  shape.category,
			Model:     sel.Model,
			Quality:   sel.Quality,
			Reasoning: sel.Reasoning,
		})
	}
	return recs, nil
}
