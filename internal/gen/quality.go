package gen

import "strings"

// ScoreQuality rates generated output on an additive 0-1 scale:
// substantial length, code blocks, error handling, test coverage, and
// imports for implementation categories each add a fixed amount.
func ScoreQuality(text, category string) float64 {
	score := 0.0
	lower := strings.ToLower(text)

	if len(text) > 100 {
		score += 0.2
	}
	if strings.Contains(text, "```") {
		score += 0.3
	}
	if containsAny(lower, "error", "exception", "try", "catch") {
		score += 0.2
	}
	if containsAny(lower, "test", "spec", "describe") {
		score += 0.1
	}
	if strings.HasPrefix(category, "implement") && strings.Contains(lower, "import") {
		score += 0.2
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
