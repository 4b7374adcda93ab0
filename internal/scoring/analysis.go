package scoring

import (
	"math"
	"time"

	"github.com/spigell/job-matcher/internal/ai"
)

// Recommendation is the decision derived from a MatchScore.
type Recommendation string

const (
	Apply Recommendation = "apply"
	Maybe Recommendation = "maybe"
	Skip  Recommendation = "skip"
)

// Rank orders recommendations: skip < maybe < apply.
func (r Recommendation) Rank() int {
	switch r {
	case Apply:
		return 2
	case Maybe:
		return 1
	default:
		return 0
	}
}

// ParseRecommendation accepts apply, maybe or skip in any case.
func ParseRecommendation(s string) (Recommendation, bool) {
	switch Recommendation(lower(s)) {
	case Apply:
		return Apply, true
	case Maybe:
		return Maybe, true
	case Skip:
		return Skip, true
	default:
		return "", false
	}
}

// MatchScore holds the dimension scores, the weighted overall score and the
// confidence, all within [0,100].
type MatchScore struct {
	QualificationScore float64 `json:"qualification_score"`
	CompetitionScore   float64 `json:"competition_score"`
	StrategicScore     float64 `json:"strategic_score"`
	OverallScore       float64 `json:"overall_score"`
	Confidence         float64 `json:"confidence"`
}

// Metadata keeps the sub-factors of every dimension and the semantic analysis
// the scores were computed with.
type Metadata struct {
	QualificationDetails QualificationDetails `json:"qualification_details"`
	CompetitionDetails   CompetitionDetails   `json:"competition_details"`
	StrategicDetails     StrategicDetails     `json:"strategic_details"`
	AnalysisData         ai.SemanticAnalysis  `json:"analysis_data"`
}

// JobAnalysis is the result of scoring one résumé against one job posting.
type JobAnalysis struct {
	ID             string         `json:"id"`
	ResumeID       string         `json:"resume_id"`
	JobID          string         `json:"job_id"`
	JobTitle       string         `json:"job_title,omitempty"`
	Company        string         `json:"company,omitempty"`
	MatchScore     MatchScore     `json:"match_score"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
	KeyMatches     []string       `json:"key_matches"`
	Gaps           []string       `json:"gaps"`
	AnalysisDate   time.Time      `json:"analysis_date"`
	Metadata       Metadata       `json:"metadata"`
}

// MeetsThresholds reports whether the analysis clears both user thresholds.
func (a *JobAnalysis) MeetsThresholds(score, confidence float64) bool {
	return a.MatchScore.OverallScore >= score && a.MatchScore.Confidence >= confidence
}

// Degraded reports whether the semantic analysis step failed.
func (a *JobAnalysis) Degraded() bool {
	return a.Metadata.AnalysisData.Degraded
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
