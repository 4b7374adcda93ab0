package scoring

import (
	"strings"

	"github.com/spigell/job-matcher/internal/records"
)

var degreeKeywords = []string{"bachelor", "master", "phd", "degree"}

const (
	educationBonusPoints     = 10.0
	certificationBonusPoints = 5.0
	maxCertificationBonus    = 10.0
	skillSimilarityWeight    = 0.6
	experienceMatchWeight    = 0.4
)

// QualificationDetails explains a qualification score.
type QualificationDetails struct {
	SkillSimilarity    float64 `json:"skill_similarity"`
	ExperienceMatch    float64 `json:"experience_match"`
	EducationBonus     float64 `json:"education_bonus"`
	CertificationBonus float64 `json:"certification_bonus"`
	RelevantCerts      int     `json:"relevant_certifications"`
	BaseScore          float64 `json:"base_score"`
	BonusScore         float64 `json:"bonus_score"`
}

// QualificationResult is the qualification dimension of an analysis.
type QualificationResult struct {
	Score   float64
	Details QualificationDetails
}

// SkillSimilarity scores candidate skills against required skills in [0,1].
type SkillSimilarity interface {
	Similarity(candidate, required []string) float64
}

// ScoreQualification blends skill similarity and experience fit, then adds
// education and certification bonuses.
func ScoreQualification(sim SkillSimilarity, resume *records.ResumeProfile, job *records.JobRecord) QualificationResult {
	similarity := sim.Similarity(resume.Skills, job.SkillsRequired)
	experience := ExperienceMatch(resume.ExperienceYears, job.ExperienceRequired)

	education := 0.0
	if anyContainsAny(resume.Education, degreeKeywords) {
		education = educationBonusPoints
	}

	relevant := relevantCertifications(resume.Certifications, job.SkillsRequired)
	certification := min(maxCertificationBonus, certificationBonusPoints*float64(relevant))

	base := (similarity*skillSimilarityWeight + experience*experienceMatchWeight) * 100
	bonus := education + certification

	return QualificationResult{
		Score: clamp(base+bonus, 0, 100),
		Details: QualificationDetails{
			SkillSimilarity:    similarity,
			ExperienceMatch:    experience,
			EducationBonus:     education,
			CertificationBonus: certification,
			RelevantCerts:      relevant,
			BaseScore:          base,
			BonusScore:         bonus,
		},
	}
}

// ExperienceMatch maps candidate years against required years onto a
// staircase: 1.0 when met, then 0.8/0.6/0.4 at 80%/60%/40% of the
// requirement, 0.2 below that. No requirement is always a full match.
func ExperienceMatch(candidate, required int) float64 {
	if required <= 0 || candidate >= required {
		return 1.0
	}

	have, want := float64(candidate), float64(required)
	switch {
	case have >= want*0.8:
		return 0.8
	case have >= want*0.6:
		return 0.6
	case have >= want*0.4:
		return 0.4
	default:
		return 0.2
	}
}

// relevantCertifications counts certifications mentioning any required skill.
func relevantCertifications(certs, skills []string) int {
	count := 0
	for _, cert := range certs {
		text := lower(cert)
		for _, skill := range skills {
			s := lower(skill)
			if s != "" && strings.Contains(text, s) {
				count++
				break
			}
		}
	}
	return count
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// containsAny reports whether lower(text) contains any of the keywords.
func containsAny(text string, keywords []string) bool {
	text = lower(text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func anyContainsAny(texts, keywords []string) bool {
	for _, text := range texts {
		if containsAny(text, keywords) {
			return true
		}
	}
	return false
}

func countContainingAny(texts, keywords []string) int {
	count := 0
	for _, text := range texts {
		if containsAny(text, keywords) {
			count++
		}
	}
	return count
}
