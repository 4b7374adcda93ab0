package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/job-matcher/internal/records"
)

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// SemanticRequest carries the structured fields a provider judges.
type SemanticRequest struct {
	CandidateSkills     []string `json:"cv_skills"`
	CandidateExperience int      `json:"cv_experience"`
	CandidateEducation  []string `json:"cv_education"`
	CandidateRoles      []string `json:"cv_roles"`
	CandidateIndustries []string `json:"cv_industries"`

	JobTitle        string   `json:"job_title"`
	JobSkills       []string `json:"job_skills"`
	JobExperience   int      `json:"job_experience"`
	JobRequirements []string `json:"job_requirements"`
	JobIndustry     string   `json:"job_industry"`
}

// NewSemanticRequest projects a résumé and a job onto the request fields.
func NewSemanticRequest(resume *records.ResumeProfile, job *records.JobRecord) SemanticRequest {
	industry := strings.TrimSpace(job.Industry)
	if industry == "" {
		industry = "Not specified"
	}

	return SemanticRequest{
		CandidateSkills:     resume.Skills,
		CandidateExperience: resume.ExperienceYears,
		CandidateEducation:  resume.Education,
		CandidateRoles:      resume.JobTitles,
		CandidateIndustries: resume.Industries,
		JobTitle:            job.Title,
		JobSkills:           job.SkillsRequired,
		JobExperience:       job.ExperienceRequired,
		JobRequirements:     job.Requirements,
		JobIndustry:         industry,
	}
}

// SemanticAnalysis is the narrative judgment of a résumé/job pair. It only
// influences confidence and the explanatory fields of an analysis.
type SemanticAnalysis struct {
	QualificationAnalysis string   `json:"qualification_analysis" mapstructure:"qualification_analysis"`
	CompetitionAnalysis   string   `json:"competition_analysis" mapstructure:"competition_analysis"`
	StrategicAnalysis     string   `json:"strategic_analysis" mapstructure:"strategic_analysis"`
	KeyMatches            []string `json:"key_matches" mapstructure:"key_matches"`
	Gaps                  []string `json:"gaps" mapstructure:"gaps"`
	Reasoning             string   `json:"reasoning" mapstructure:"reasoning"`
	ConfidenceFactors     []string `json:"confidence_factors,omitempty" mapstructure:"confidence_factors"`

	// Degraded is set when the analysis was not produced by the provider.
	Degraded bool `json:"degraded,omitempty" mapstructure:"-"`
	// Raw is the unparsed provider output.
	Raw string `json:"raw,omitempty" mapstructure:"-"`
}

// DegradedAnalysis is substituted when the provider fails.
func DegradedAnalysis(err error) *SemanticAnalysis {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}

	return &SemanticAnalysis{
		QualificationAnalysis: "Analysis error: " + reason,
		CompetitionAnalysis:   "Unable to analyze competition factors",
		StrategicAnalysis:     "Unable to analyze strategic factors",
		KeyMatches:            []string{},
		Gaps:                  []string{},
		Reasoning:             "Analysis failed due to error: " + reason,
		ConfidenceFactors:     []string{},
		Degraded:              true,
	}
}

// Analyzer produces a semantic analysis for a résumé/job pair.
type Analyzer interface {
	Analyze(ctx context.Context, req SemanticRequest) (*SemanticAnalysis, error)
}
