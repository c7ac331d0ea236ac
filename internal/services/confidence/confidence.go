// Package confidence scores LLM answers with a deterministic heuristic.
// The score estimates answer quality from structure and vocabulary; it
// is not a statistical probability.
package confidence

import (
	"strings"

	"github.com/stratus-tools/stratus-advisor/internal/models"
	"github.com/stratus-tools/stratus-advisor/internal/services/prompt"
)

const (
	baseScore     = 0.5
	sectionBonus  = 0.3
	termBonusCap  = 0.2
	keywordCap    = 0.1
	fallbackScore = 0.7
	minScore      = 0.1
	maxScore      = 1.0
)

// technicalIndicators are tokens whose presence suggests a concrete,
// actionable answer. Each indicator counts at most once.
var technicalIndicators = []string{
	".exe", ".config", ".xml", ".py", ".cs", ".js", ".tsx", ".json", ".sql",
	"TTS-", "ClickUp", "batch", "geocoding", "allocation", "validation",
	"file", "directory", "database", "API", "service", "configuration",
}

// Score computes the heuristic confidence for a response in [0.1, 1.0].
// It is pure: identical inputs always produce the identical float. Any
// internal failure yields the fixed fallback 0.7 so that scoring never
// aborts the pipeline.
func Score(response, query string, product models.Product) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = fallbackScore
		}
	}()

	score = baseScore

	sectionsFound := 0
	for _, section := range prompt.RequiredSections {
		if strings.Contains(response, section) {
			sectionsFound++
		}
	}
	score += float64(sectionsFound) / float64(len(prompt.RequiredSections)) * sectionBonus

	lowerResponse := strings.ToLower(response)

	termsFound := 0
	for _, indicator := range technicalIndicators {
		if strings.Contains(lowerResponse, strings.ToLower(indicator)) {
			termsFound++
		}
	}
	score += min(float64(termsFound)/10, termBonusCap)

	switch {
	case len(response) > 1000:
		score += 0.1
	case len(response) > 500:
		score += 0.05
	}

	if info, ok := product.Info(); ok {
		keywordsFound := 0
		for _, keyword := range info.Keywords {
			if strings.Contains(lowerResponse, strings.ToLower(keyword)) {
				keywordsFound++
			}
		}
		score += min(float64(keywordsFound)/5, keywordCap)
	}

	return clamp(score)
}

func clamp(v float64) float64 {
	return min(max(v, minScore), maxScore)
}
