package scoring

import (
	"strings"

	"github.com/spigell/job-matcher/internal/records"
)

var (
	specializedSkills  = []string{"ai", "machine learning", "blockchain", "quantum", "cloud architecture"}
	leadershipKeywords = []string{"lead", "manager", "director", "senior", "principal", "architect"}
)

const (
	competitionBase          = 50.0
	overqualificationRatio   = 1.5
	overqualificationPerYear = 2.0
	maxOverqualification     = 20.0
	uniqueSkillPoints        = 5.0
	maxUniqueSkillsBonus     = 20.0
	industryBonusPoints      = 15.0
	leadershipBonusPoints    = 10.0
)

// CompetitionDetails explains a competition score.
type CompetitionDetails struct {
	BaseCompetition          float64 `json:"base_competition"`
	OverqualificationPenalty float64 `json:"overqualification_penalty"`
	UniqueSkillsBonus        float64 `json:"unique_skills_bonus"`
	IndustryExperienceBonus  float64 `json:"industry_experience_bonus"`
	LeadershipBonus          float64 `json:"leadership_bonus"`
}

// CompetitionResult is the competition dimension of an analysis.
type CompetitionResult struct {
	Score   float64
	Details CompetitionDetails
}

// ScoreCompetition estimates how the candidate stands against other
// applicants, starting from a neutral 50.
func ScoreCompetition(resume *records.ResumeProfile, job *records.JobRecord) CompetitionResult {
	penalty := 0.0
	if float64(resume.ExperienceYears) > float64(job.ExperienceRequired)*overqualificationRatio {
		extra := float64(resume.ExperienceYears - job.ExperienceRequired)
		penalty = min(maxOverqualification, extra*overqualificationPerYear)
	}

	unique := min(maxUniqueSkillsBonus, uniqueSkillPoints*float64(countContainingAny(resume.Skills, specializedSkills)))

	industry := 0.0
	if industryOverlaps(job.Industry, resume.Industries) {
		industry = industryBonusPoints
	}

	leadership := 0.0
	if anyContainsAny(resume.JobTitles, leadershipKeywords) {
		leadership = leadershipBonusPoints
	}

	return CompetitionResult{
		Score: clamp(competitionBase-penalty+unique+industry+leadership, 0, 100),
		Details: CompetitionDetails{
			BaseCompetition:          competitionBase,
			OverqualificationPenalty: penalty,
			UniqueSkillsBonus:        unique,
			IndustryExperienceBonus:  industry,
			LeadershipBonus:          leadership,
		},
	}
}

// industryOverlaps reports a case-insensitive substring match in either
// direction between the job industry and any candidate industry.
func industryOverlaps(jobIndustry string, industries []string) bool {
	want := lower(jobIndustry)
	if want == "" {
		return false
	}

	for _, industry := range industries {
		have := lower(industry)
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return true
		}
	}
	return false
}
