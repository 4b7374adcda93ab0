// Package filtering runs a batch of job postings through an ordered list of
// steps: exclusion before scoring, scoring itself, and recommendation based
// cuts afterwards.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/records"
	"github.com/spigell/job-matcher/internal/scoring"
)

// Filter represents a single step applied to a batch.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, b *Batch) (*Batch, Step, error)
}

// Scorer scores one résumé/job pair.
type Scorer interface {
	Analyze(ctx context.Context, resume *records.ResumeProfile, job *records.JobRecord) (*scoring.JobAnalysis, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger *zap.Logger
	Resume *records.ResumeProfile
	Scorer Scorer
}

// Step describes the result of executing a step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the steps.
type Config struct {
	// MinimumRecommendation is one of apply, maybe, skip. Empty keeps all.
	MinimumRecommendation string  `mapstructure:"minimum-recommendation"`
	ScoreThreshold        float64 `mapstructure:"score-threshold" validate:"gte=0,lte=100"`
	ConfidenceThreshold   float64 `mapstructure:"confidence-threshold" validate:"gte=0,lte=100"`
	ExcludeFile           string  `mapstructure:"exclude-file"`
	Concurrency           int     `mapstructure:"-"`
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by steps that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled step, then executes them sequentially.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, b *Batch) (*Batch, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, info, err := step.Apply(ctx, deps, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		b = next
	}

	return b, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// Default returns the standard pipeline.
func Default() []Filter {
	return []Filter{
		NewExcludeFile(),
		NewScore(),
		NewRecommendation(),
		NewThresholds(),
	}
}
