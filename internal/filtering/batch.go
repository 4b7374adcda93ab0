package filtering

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spigell/job-matcher/internal/records"
	"github.com/spigell/job-matcher/internal/scoring"
)

// Batch is the state flowing through the pipeline. Jobs holds postings not
// yet scored; after scoring, Analyses holds the surviving results and
// Dropped the analyses removed by later steps.
type Batch struct {
	Jobs     *records.Jobs
	Analyses []*scoring.JobAnalysis
	Dropped  []*scoring.JobAnalysis
	scored   bool
}

// NewBatch wraps jobs awaiting scoring.
func NewBatch(jobs *records.Jobs) *Batch {
	if jobs == nil {
		jobs = &records.Jobs{}
	}
	return &Batch{Jobs: jobs}
}

// Scored reports whether the scoring step has run.
func (b *Batch) Scored() bool {
	return b.scored
}

// Len is the number of analyses once scored, and of jobs before that.
func (b *Batch) Len() int {
	if b.scored {
		return len(b.Analyses)
	}
	return b.Jobs.Len()
}

// keep retains analyses accepted by pred and moves the rest to Dropped,
// returning the dropped job IDs.
func (b *Batch) keep(pred func(*scoring.JobAnalysis) bool) []string {
	kept := b.Analyses[:0]
	var dropped []string
	for _, analysis := range b.Analyses {
		if pred(analysis) {
			kept = append(kept, analysis)
			continue
		}
		dropped = append(dropped, analysis.JobID)
		b.Dropped = append(b.Dropped, analysis)
	}
	b.Analyses = kept
	return dropped
}

// SortByOverall orders analyses by overall score, best first.
func (b *Batch) SortByOverall() {
	sort.SliceStable(b.Analyses, func(i, j int) bool {
		return b.Analyses[i].MatchScore.OverallScore > b.Analyses[j].MatchScore.OverallScore
	})
}

// DroppedJobs returns the postings behind dropped analyses.
func (b *Batch) DroppedJobs(all *records.Jobs) *records.Jobs {
	out := &records.Jobs{}
	for _, analysis := range b.Dropped {
		if job := all.FindByID(analysis.JobID); job != nil {
			out.Items = append(out.Items, job)
		}
	}
	return out
}

// ReportByRecommendation groups surviving analyses by recommendation.
func (b *Batch) ReportByRecommendation() map[scoring.Recommendation][]map[string]string {
	report := make(map[scoring.Recommendation][]map[string]string)
	for _, a := range b.Analyses {
		report[a.Recommendation] = append(report[a.Recommendation], map[string]string{
			"job_id":     a.JobID,
			"title":      a.JobTitle,
			"company":    a.Company,
			"overall":    fmt.Sprintf("%.1f", a.MatchScore.OverallScore),
			"confidence": fmt.Sprintf("%.1f", a.MatchScore.Confidence),
			"reasoning":  a.Reasoning,
		})
	}
	return report
}

// DumpToTmpFile writes the surviving analyses to a new temporary JSON file
// and returns its name.
func (b *Batch) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "analyses_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.Analyses); err != nil {
		return "", err
	}
	return file.Name(), nil
}
