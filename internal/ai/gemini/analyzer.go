package gemini

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/ai"
	"github.com/spigell/job-matcher/internal/utils"
)

const (
	defaultMaxLogLength = 200

	systemInstruction = "You are an experienced technical recruiter. " +
		"You judge how well a candidate fits a job posting and answer strictly in the requested JSON format."
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Analyzer implements ai.Analyzer on top of a Gemini generator.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze asks the model for a narrative judgment of the pair. Output that is
// not valid JSON is scanned line by line instead of being rejected; only
// transport failures are returned as errors.
func (a *Analyzer) Analyze(ctx context.Context, req ai.SemanticRequest) (*ai.SemanticAnalysis, error) {
	prompt := buildPrompt(req)

	a.logger.Debug("gemini analysis request",
		zap.String("job_title", req.JobTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analysis response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, decodeErr := decodeAnalysis(raw)
	if decodeErr != nil {
		a.logger.Warn("structured analysis decoding failed, scanned response text instead",
			zap.Error(decodeErr),
			zap.Int("key_matches", len(analysis.KeyMatches)),
			zap.Int("gaps", len(analysis.Gaps)),
		)
	}

	analysis.Raw = raw
	return analysis, nil
}

func buildPrompt(req ai.SemanticRequest) string {
	replacer := strings.NewReplacer(
		"{{CV_SKILLS}}", joinList(req.CandidateSkills),
		"{{CV_EXPERIENCE}}", strconv.Itoa(req.CandidateExperience),
		"{{CV_EDUCATION}}", joinList(req.CandidateEducation),
		"{{CV_ROLES}}", joinList(req.CandidateRoles),
		"{{CV_INDUSTRIES}}", joinList(req.CandidateIndustries),
		"{{JOB_TITLE}}", req.JobTitle,
		"{{JOB_SKILLS}}", joinList(req.JobSkills),
		"{{JOB_EXPERIENCE}}", strconv.Itoa(req.JobExperience),
		"{{JOB_REQUIREMENTS}}", joinList(req.JobRequirements),
		"{{JOB_INDUSTRY}}", req.JobIndustry,
	)
	return replacer.Replace(promptTemplate)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
