// Package scoring turns a résumé and a job posting into an explainable
// compatibility analysis with an apply/maybe/skip recommendation.
package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// Weights of the three dimensions in the overall score.
type Weights struct {
	Qualification float64 `mapstructure:"qualification" validate:"gte=0,lte=1"`
	Competition   float64 `mapstructure:"competition" validate:"gte=0,lte=1"`
	Strategic     float64 `mapstructure:"strategic" validate:"gte=0,lte=1"`
}

// Overall combines dimension scores into the weighted overall score.
func (w Weights) Overall(qualification, competition, strategic float64) float64 {
	return qualification*w.Qualification + competition*w.Competition + strategic*w.Strategic
}

// Thresholds drive the recommendation rule. Rules are evaluated in order and
// the first match wins:
//
//	overall >= ApplyOverall && confidence >= ApplyConfidence          -> apply
//	overall >= QualifiedOverall && qualification >= QualifiedScore    -> apply
//	overall >= MaybeOverall && confidence >= MaybeConfidence          -> maybe
//	otherwise                                                         -> skip
type Thresholds struct {
	ApplyOverall     float64 `mapstructure:"apply-overall" validate:"gte=0,lte=100"`
	ApplyConfidence  float64 `mapstructure:"apply-confidence" validate:"gte=0,lte=100"`
	QualifiedOverall float64 `mapstructure:"qualified-overall" validate:"gte=0,lte=100"`
	QualifiedScore   float64 `mapstructure:"qualified-score" validate:"gte=0,lte=100"`
	MaybeOverall     float64 `mapstructure:"maybe-overall" validate:"gte=0,lte=100"`
	MaybeConfidence  float64 `mapstructure:"maybe-confidence" validate:"gte=0,lte=100"`
}

// Config is the engine configuration.
type Config struct {
	Weights    Weights    `mapstructure:"weights"`
	Thresholds Thresholds `mapstructure:"thresholds"`
	// SemanticTimeout bounds the semantic analysis call.
	SemanticTimeout time.Duration `mapstructure:"semantic-timeout" validate:"gte=0"`
}

const weightsTolerance = 1e-6

var validate = validator.New()

// DefaultConfig returns the 60/25/15 weighting and the standard thresholds.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Qualification: 0.6,
			Competition:   0.25,
			Strategic:     0.15,
		},
		Thresholds: Thresholds{
			ApplyOverall:     75,
			ApplyConfidence:  70,
			QualifiedOverall: 60,
			QualifiedScore:   60,
			MaybeOverall:     45,
			MaybeConfidence:  60,
		},
		SemanticTimeout: 30 * time.Second,
	}
}

// Validate checks ranges and that the weights sum to one.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}

	sum := c.Weights.Qualification + c.Weights.Competition + c.Weights.Strategic
	if math.Abs(sum-1) > weightsTolerance {
		return fmt.Errorf("invalid scoring config: weights must sum to 1, got %.4f", sum)
	}

	return nil
}
