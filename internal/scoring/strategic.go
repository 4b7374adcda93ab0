package scoring

import (
	"strings"

	"github.com/spigell/job-matcher/internal/ai"
	"github.com/spigell/job-matcher/internal/records"
)

var (
	// careerLadder is ordered; level = index + 1.
	careerLadder   = []string{"senior", "lead", "principal", "manager", "director"}
	emergingSkills = []string{"ai", "ml", "cloud", "devops", "kubernetes", "react", "python", "aws"}
)

const (
	strategicBase            = 60.0
	growthStepUpPoints       = 20.0
	growthLateralPoints      = 10.0
	skillDevelopmentPoints   = 3.0
	maxSkillDevelopmentBonus = 15.0
	companySizeDefault       = 5.0
	companySizeMatch         = 10.0
	startupMaxExperience     = 5
	enterpriseMinExperience  = 3
)

// StrategicDetails explains a strategic score.
type StrategicDetails struct {
	BaseStrategic         float64 `json:"base_strategic"`
	CareerGrowthPotential float64 `json:"career_growth_potential"`
	SkillDevelopmentBonus float64 `json:"skill_development_bonus"`
	CompanySizeFit        float64 `json:"company_size_fit"`
	CurrentLevel          int     `json:"current_level"`
	TargetLevel           int     `json:"target_level"`
}

// StrategicResult is the strategic dimension of an analysis.
type StrategicResult struct {
	Score   float64
	Details StrategicDetails
}

// ScoreStrategic rates career growth, skill development and company size
// fit from the records.
func ScoreStrategic(resume *records.ResumeProfile, job *records.JobRecord, _ *ai.SemanticAnalysis) StrategicResult {
	current, target := careerLevels(resume.JobTitles, job.Title)

	growth := 0.0
	switch {
	case target > current:
		growth = growthStepUpPoints
	case target == current:
		growth = growthLateralPoints
	}

	development := 0.0
	if n := countContainingAny(job.SkillsRequired, emergingSkills); n > 0 {
		development = min(maxSkillDevelopmentBonus, skillDevelopmentPoints*float64(n))
	}

	size := companySizeFit(job, resume.ExperienceYears)

	return StrategicResult{
		Score: clamp(strategicBase+growth+development+size, 0, 100),
		Details: StrategicDetails{
			BaseStrategic:         strategicBase,
			CareerGrowthPotential: growth,
			SkillDevelopmentBonus: development,
			CompanySizeFit:        size,
			CurrentLevel:          current,
			TargetLevel:           target,
		},
	}
}

// careerLevels returns the highest ladder level found in the candidate's
// titles and the highest level found in the job title (0 when none).
func careerLevels(titles []string, jobTitle string) (current, target int) {
	jobTitle = lower(jobTitle)
	for i, rung := range careerLadder {
		if anyContainsAny(titles, []string{rung}) {
			current = i + 1
		}
		if strings.Contains(jobTitle, rung) {
			target = i + 1
		}
	}
	return current, target
}

// companySizeFit checks startup signals before enterprise signals; once the
// startup branch is taken the enterprise branch is not considered, even when
// the experience condition of the startup branch fails.
func companySizeFit(job *records.JobRecord, years int) float64 {
	company := lower(job.Company)
	description := lower(job.Description)

	switch {
	case strings.Contains(company, "startup") || strings.Contains(description, "small"):
		if years < startupMaxExperience {
			return companySizeMatch
		}
	case strings.Contains(company, "enterprise") || strings.Contains(description, "fortune"):
		if years > enterpriseMinExperience {
			return companySizeMatch
		}
	}
	return companySizeDefault
}
