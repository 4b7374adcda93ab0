package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/scoring"
)

type recommendationFilter struct {
	minimum scoring.Recommendation
}

// NewRecommendation creates a step that drops analyses recommended below the
// configured minimum.
func NewRecommendation() Filter {
	return &recommendationFilter{}
}

func (f *recommendationFilter) Name() string { return "recommendation" }

func (f *recommendationFilter) Disable(string) {}

func (f *recommendationFilter) IsEnabled() bool { return true }

func (f *recommendationFilter) Validate(cfg *Config) error {
	f.minimum = ""
	if cfg == nil || strings.TrimSpace(cfg.MinimumRecommendation) == "" {
		return nil
	}

	minimum, ok := scoring.ParseRecommendation(cfg.MinimumRecommendation)
	if !ok {
		return fmt.Errorf("unknown recommendation %q", cfg.MinimumRecommendation)
	}
	f.minimum = minimum
	return nil
}

func (f *recommendationFilter) Apply(_ context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	if f.minimum == "" {
		return b, Step{Initial: initial, Left: initial}, nil
	}
	if !b.Scored() {
		return b, Step{}, fmt.Errorf("recommendation filter requires scored jobs")
	}

	dropped := b.keep(func(a *scoring.JobAnalysis) bool {
		return a.Recommendation.Rank() >= f.minimum.Rank()
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding jobs below minimum recommendation",
			zap.String("minimum", string(f.minimum)),
			zap.Strings("excluded_jobs", dropped),
			zap.Int("jobs_left", b.Len()),
		)
	}

	return b, Step{Initial: initial, Dropped: len(dropped), Left: b.Len()}, nil
}

func (f *recommendationFilter) Status() Status {
	details := map[string]string{}
	if f.minimum != "" {
		details["minimum"] = string(f.minimum)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
