package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/scoring"
)

type thresholdsFilter struct {
	disabled   bool
	reason     string
	score      float64
	confidence float64
}

// NewThresholds creates a step that keeps analyses meeting both the overall
// score and the confidence thresholds.
func NewThresholds() Filter {
	return &thresholdsFilter{}
}

func (f *thresholdsFilter) Name() string { return "thresholds" }

func (f *thresholdsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *thresholdsFilter) IsEnabled() bool { return !f.disabled }

func (f *thresholdsFilter) Validate(cfg *Config) error {
	f.score, f.confidence = 0, 0
	if cfg == nil {
		return nil
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 100 {
		return fmt.Errorf("score threshold %.2f is out of [0,100]", cfg.ScoreThreshold)
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 100 {
		return fmt.Errorf("confidence threshold %.2f is out of [0,100]", cfg.ConfidenceThreshold)
	}
	f.score, f.confidence = cfg.ScoreThreshold, cfg.ConfidenceThreshold
	return nil
}

func (f *thresholdsFilter) Apply(_ context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	if !b.Scored() {
		return b, Step{}, fmt.Errorf("thresholds filter requires scored jobs")
	}

	dropped := b.keep(func(a *scoring.JobAnalysis) bool {
		return a.MeetsThresholds(f.score, f.confidence)
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding jobs below thresholds",
			zap.Float64("score_threshold", f.score),
			zap.Float64("confidence_threshold", f.confidence),
			zap.Strings("excluded_jobs", dropped),
			zap.Int("jobs_left", b.Len()),
		)
	}

	return b, Step{Initial: initial, Dropped: len(dropped), Left: b.Len()}, nil
}

func (f *thresholdsFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"score_threshold":      fmt.Sprintf("%.2f", f.score),
			"confidence_threshold": fmt.Sprintf("%.2f", f.confidence),
		},
	}
}
