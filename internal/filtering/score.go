package filtering

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/job-matcher/internal/scoring"
)

const defaultConcurrency = 4

type scoreFilter struct {
	disabled    bool
	reason      string
	concurrency int
}

// NewScore creates the step that scores every remaining job against the
// résumé. Jobs the scorer rejects are logged and dropped.
func NewScore() Filter {
	return &scoreFilter{}
}

func (f *scoreFilter) Name() string { return "score" }

func (f *scoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *scoreFilter) IsEnabled() bool { return !f.disabled }

func (f *scoreFilter) Validate(cfg *Config) error {
	f.concurrency = defaultConcurrency
	if cfg != nil && cfg.Concurrency > 0 {
		f.concurrency = cfg.Concurrency
	}
	return nil
}

func (f *scoreFilter) Apply(ctx context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	if deps.Scorer == nil {
		return b, Step{}, errors.New("scorer is required")
	}
	if deps.Resume == nil {
		return b, Step{}, errors.New("resume is required for scoring")
	}

	results := make([]*scoring.JobAnalysis, len(b.Jobs.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, job := range b.Jobs.Items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			analysis, err := deps.Scorer.Analyze(gctx, deps.Resume, job)
			if err != nil {
				deps.Logger.Warn("scoring failed",
					zap.String("job_id", job.ID),
					zap.Error(err),
				)
				return nil
			}

			deps.Logger.Info("job scored",
				zap.String("job_id", job.ID),
				zap.Float64("overall", analysis.MatchScore.OverallScore),
				zap.String("recommendation", string(analysis.Recommendation)),
			)
			results[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return b, Step{}, err
	}

	b.Analyses = b.Analyses[:0]
	for _, analysis := range results {
		if analysis != nil {
			b.Analyses = append(b.Analyses, analysis)
		}
	}
	b.scored = true

	left := b.Len()
	return b, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *scoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"concurrency": strconv.Itoa(f.concurrency)},
	}
}
