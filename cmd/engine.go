package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/ai"
	"github.com/spigell/job-matcher/internal/ai/gemini"
	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/scoring"
	"github.com/spigell/job-matcher/internal/secrets"
	"github.com/spigell/job-matcher/internal/similarity"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// newEngine wires the TF-IDF similarity and the configured semantic analyzer
// into a scoring engine. Without an analyzer every analysis is degraded.
func newEngine(ctx context.Context, config *Config, log *zap.Logger) (*scoring.Engine, error) {
	var analyzer ai.Analyzer
	if config.AI != nil && config.AI.Enabled {
		built, err := newAnalyzer(ctx, config.AI, log)
		if err != nil {
			return nil, fmt.Errorf("building ai analyzer: %w", err)
		}
		analyzer = built
	} else {
		log.Warn("ai analysis is disabled; semantic fields will be degraded")
	}

	return scoring.NewEngine(config.Scoring, similarity.NewVectorizer(), analyzer, log)
}

func newAnalyzer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Analyzer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(log, "gemini", gcfg.Model).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, gcfg.MaxLogLength, logger.WithCommonFields(log, "gemini", generator.Model())), nil
}
