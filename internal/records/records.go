// Package records holds the résumé and job posting snapshots consumed by the
// scoring engine, and the file formats they are exchanged in.
package records

import (
	"github.com/go-playground/validator/v10"
)

// ResumeProfile is a parsed candidate résumé. It is created once per parse and
// treated as read-only afterwards.
type ResumeProfile struct {
	ID              string   `json:"id" mapstructure:"id"`
	Name            string   `json:"name,omitempty" mapstructure:"name"`
	Skills          []string `json:"skills" mapstructure:"skills"`
	ExperienceYears int      `json:"experience_years" mapstructure:"experience_years" validate:"gte=0"`
	Education       []string `json:"education" mapstructure:"education"`
	Certifications  []string `json:"certifications" mapstructure:"certifications"`
	JobTitles       []string `json:"job_titles" mapstructure:"job_titles"`
	Industries      []string `json:"industries" mapstructure:"industries"`
}

// JobRecord is a parsed job posting. Industry is optional; an empty string
// means the posting did not state one.
type JobRecord struct {
	ID                 string   `json:"id" mapstructure:"id"`
	URL                string   `json:"url,omitempty" mapstructure:"url"`
	Title              string   `json:"title" mapstructure:"title" validate:"required"`
	Company            string   `json:"company" mapstructure:"company"`
	Location           string   `json:"location,omitempty" mapstructure:"location"`
	Description        string   `json:"description" mapstructure:"description"`
	Requirements       []string `json:"requirements" mapstructure:"requirements"`
	SkillsRequired     []string `json:"skills_required" mapstructure:"skills_required"`
	ExperienceRequired int      `json:"experience_required" mapstructure:"experience_required" validate:"gte=0"`
	SalaryRange        string   `json:"salary_range,omitempty" mapstructure:"salary_range"`
	JobType            string   `json:"job_type,omitempty" mapstructure:"job_type"`
	Industry           string   `json:"industry,omitempty" mapstructure:"industry"`
}

var validate = validator.New()

// Validate checks structural constraints of the résumé.
func (r *ResumeProfile) Validate() error {
	return validate.Struct(r)
}

// Validate checks structural constraints of the job posting.
func (j *JobRecord) Validate() error {
	return validate.Struct(j)
}

// Jobs is an ordered collection of job postings.
type Jobs struct {
	Items []*JobRecord
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *JobRecord {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Exclude drops jobs whose ID is in ids, keeping the order of the rest, and
// returns the IDs actually removed.
func (j *Jobs) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if _, ok := drop[job.ID]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept

	return excluded
}
