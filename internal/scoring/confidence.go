package scoring

import (
	"math"

	"github.com/spigell/job-matcher/internal/ai"
)

const (
	confidenceBase        = 70.0
	confidenceMin         = 20.0
	confidenceMax         = 95.0
	strongMatchesCount    = 3
	manyGapsCount         = 2
	dimensionSpreadLimit  = 20.0
	strongQualification   = 80.0
	adequateQualification = 60.0
	weakQualification     = 40.0
)

// Confidence estimates how much the scores can be trusted. It rewards strong
// qualification and many key matches, and penalizes gaps and disagreement
// between dimensions. The result lies in [20,95].
func Confidence(qualification, competition, strategic float64, analysis *ai.SemanticAnalysis) float64 {
	confidence := confidenceBase

	switch {
	case qualification > strongQualification:
		confidence += 15
	case qualification > adequateQualification:
		confidence += 5
	case qualification < weakQualification:
		confidence -= 15
	}

	if analysis != nil {
		if len(analysis.KeyMatches) > strongMatchesCount {
			confidence += 10
		}
		if len(analysis.Gaps) > manyGapsCount {
			confidence -= 10
		}
	}

	if stddev(qualification, competition, strategic) > dimensionSpreadLimit {
		confidence -= 10
	}

	return clamp(confidence, confidenceMin, confidenceMax)
}

// stddev is the population standard deviation.
func stddev(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
