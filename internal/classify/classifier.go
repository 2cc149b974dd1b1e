// Package classify maps free-text task descriptions to a task category
// and a complexity level using keyword matching. Classification is a pure
// function: the only fallback is the generic category, never an error.
package classify

import (
	"strings"

	"foreman/pkg/models"
)

// CategoryGeneral is the fallback category when no pattern matches.
const CategoryGeneral = "general_coding"

// categoryPatterns pairs a category with its detection keywords.
// Declaration order is the tie-break rule: when two categories score the
// same number of keyword hits, the earlier entry wins.
type categoryPatterns struct {
	category string
	keywords []string
}

// defaultCategoryPatterns is the single source of truth for category
// classification keywords.
var defaultCategoryPatterns = []categoryPatterns{
	{
		category: "backend_development",
		keywords: []string{
			"api", "endpoint", "server", "backend", "database",
			"authentication", "authorization", "middleware",
			"express", "fastapi", "django", "nodejs",
		},
	},
	{
		category: "frontend_development",
		keywords: []string{
			"react", "vue", "angular", "frontend", "ui", "interface",
			"component", "styling", "css", "html", "javascript",
			"typescript", "responsive",
		},
	},
	{
		category: "algorithm_implementation",
		keywords: []string{
			"algorithm", "optimization", "performance", "complexity",
			"sorting", "search", "data structure", "efficient",
		},
	},
	{
		category: "devops",
		keywords: []string{
			"docker", "kubernetes", "deployment", "ci/cd", "pipeline",
			"infrastructure", "terraform", "ansible", "aws", "azure",
		},
	},
	{
		category: "testing",
		keywords: []string{
			"test", "testing", "unit test", "integration", "e2e",
			"jest", "cypress", "qa", "quality",
		},
	},
	{
		category: "ui_design",
		keywords: []string{
			"design", "layout", "user interface", "user experience",
			"wireframe", "mockup", "prototype", "usability",
		},
	},
	{
		category: "security_analysis",
		keywords: []string{
			"security", "vulnerability", "encryption", "authentication",
			"authorization", "owasp", "penetration", "audit",
		},
	},
	{
		category: "documentation",
		keywords: []string{
			"documentation", "readme", "docs", "manual", "guide",
			"comments", "explain", "describe",
		},
	},
}

// complexityKeywords maps each complexity level to its signal keywords.
// Levels are checked in ascending order; a tie in keyword hits resolves
// to the lower level.
var complexityKeywords = []struct {
	level    models.Complexity
	keywords []string
}{
	{models.ComplexitySimple, []string{
		"simple", "basic", "template", "boilerplate", "example",
		"crud", "straightforward", "standard",
	}},
	{models.ComplexityMedium, []string{
		"integrate", "implement", "business logic", "workflow",
		"feature", "functionality", "moderate", "standard",
	}},
	{models.ComplexityComplex, []string{
		"architecture", "optimize", "complex", "advanced",
		"scalable", "performance", "sophisticated", "intricate",
	}},
	{models.ComplexityCritical, []string{
		"mission critical", "high performance", "security critical",
		"enterprise grade", "production ready", "fault tolerant",
	}},
}

// Result is a classified task description.
type Result struct {
	// Category is the detected task category, or CategoryGeneral when no
	// keyword matched.
	Category string
	// Complexity is the detected complexity level.
	Complexity models.Complexity
}

// Classify analyzes a task description and returns its category and
// complexity. Matching is case-insensitive substring search.
func Classify(description string) Result {
	lower := strings.ToLower(description)
	return Result{
		Category:   classifyCategory(lower),
		Complexity: assessComplexity(lower),
	}
}

// classifyCategory picks the category with the most keyword hits.
// A category must strictly beat the running best to win, so the first
// declared category takes ties.
func classifyCategory(lower string) string {
	category := CategoryGeneral
	maxHits := 0

	for _, cp := range defaultCategoryPatterns {
		hits := 0
		for _, kw := range cp.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > maxHits {
			maxHits = hits
			category = cp.category
		}
	}

	return category
}

// assessComplexity scores each complexity level by keyword hits, with a
// length heuristic when descriptions are long: >100 words biases complex,
// >50 words biases medium. With no signal at all the default is medium.
func assessComplexity(lower string) models.Complexity {
	scores := make(map[models.Complexity]int, len(complexityKeywords))

	for _, ck := range complexityKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				scores[ck.level]++
			}
		}
	}

	words := len(strings.Fields(lower))
	if words > 100 {
		scores[models.ComplexityComplex]++
	} else if words > 50 {
		scores[models.ComplexityMedium]++
	}

	best := models.ComplexityMedium
	maxScore := 0
	for _, ck := range complexityKeywords {
		if scores[ck.level] > maxScore {
			maxScore = scores[ck.level]
			best = ck.level
		}
	}
	return best
}
