package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/ai"
	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/records"
)

const noReasoning = "No reasoning provided"

var errNoAnalyzer = errors.New("semantic analyzer is not configured")

// Engine scores résumé/job pairs. It is safe for concurrent use as long as
// the similarity and the analyzer are.
type Engine struct {
	cfg      Config
	sim      SkillSimilarity
	analyzer ai.Analyzer
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine validates cfg and builds an engine. A nil analyzer yields
// degraded semantic analyses for every pair.
func NewEngine(cfg Config, sim SkillSimilarity, analyzer ai.Analyzer, log *zap.Logger) (*Engine, error) {
	if sim == nil {
		return nil, errors.New("skill similarity is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		cfg:      cfg,
		sim:      sim,
		analyzer: analyzer,
		logger:   log,
		now:      time.Now,
	}, nil
}

// Analyze scores one pair. Failures of the semantic analysis never fail the
// call: they are replaced by a degraded analysis. The only errors returned
// are invalid inputs.
func (e *Engine) Analyze(ctx context.Context, resume *records.ResumeProfile, job *records.JobRecord) (*JobAnalysis, error) {
	if resume == nil || job == nil {
		return nil, errors.New("resume and job are required")
	}
	if err := resume.Validate(); err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	log := logger.ForAnalysis(e.logger, resume.ID, job.ID)
	semantic := e.semantic(ctx, log, resume, job)

	qualification := ScoreQualification(e.sim, resume, job)
	competition := ScoreCompetition(resume, job)
	strategic := ScoreStrategic(resume, job, semantic)

	overall := clamp(e.cfg.Weights.Overall(qualification.Score, competition.Score, strategic.Score), 0, 100)
	confidence := Confidence(qualification.Score, competition.Score, strategic.Score, semantic)
	recommendation := Recommend(overall, confidence, qualification.Score, e.cfg.Thresholds)

	reasoning := strings.TrimSpace(semantic.Reasoning)
	if reasoning == "" {
		reasoning = noReasoning
	}

	analysis := &JobAnalysis{
		ID:       fmt.Sprintf("analysis_%s_%s_%d", resume.ID, job.ID, int(overall)),
		ResumeID: resume.ID,
		JobID:    job.ID,
		JobTitle: job.Title,
		Company:  job.Company,
		MatchScore: MatchScore{
			QualificationScore: qualification.Score,
			CompetitionScore:   competition.Score,
			StrategicScore:     strategic.Score,
			OverallScore:       overall,
			Confidence:         confidence,
		},
		Recommendation: recommendation,
		Reasoning:      reasoning,
		KeyMatches:     nonNil(semantic.KeyMatches),
		Gaps:           nonNil(semantic.Gaps),
		AnalysisDate:   e.now().UTC(),
		Metadata: Metadata{
			QualificationDetails: qualification.Details,
			CompetitionDetails:   competition.Details,
			StrategicDetails:     strategic.Details,
			AnalysisData:         *semantic,
		},
	}

	log.Debug("pair scored",
		zap.Float64("overall", overall),
		zap.Float64("confidence", confidence),
		zap.String("recommendation", string(recommendation)),
		zap.Bool("degraded", semantic.Degraded),
	)

	return analysis, nil
}

func (e *Engine) semantic(ctx context.Context, log *zap.Logger, resume *records.ResumeProfile, job *records.JobRecord) *ai.SemanticAnalysis {
	if e.analyzer == nil {
		return ai.DegradedAnalysis(errNoAnalyzer)
	}

	if e.cfg.SemanticTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SemanticTimeout)
		defer cancel()
	}

	result, err := e.callAnalyzer(ctx, ai.NewSemanticRequest(resume, job))
	if err == nil && result == nil {
		err = ai.ErrEmptyResponse
	}
	if err != nil {
		log.Warn("semantic analysis failed, using degraded analysis", zap.Error(err))
		return ai.DegradedAnalysis(err)
	}

	return result
}

func (e *Engine) callAnalyzer(ctx context.Context, req ai.SemanticRequest) (result *ai.SemanticAnalysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("analyzer panic: %v", r)
		}
	}()

	return e.analyzer.Analyze(ctx, req)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
