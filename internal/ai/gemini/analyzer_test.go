package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-matcher/internal/ai"
	"github.com/spigell/job-matcher/internal/records"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testRequest() ai.SemanticRequest {
	resume := &records.ResumeProfile{
		Skills:          []string{"python", "aws"},
		ExperienceYears: 6,
		Education:       []string{"BSc Computer Science"},
		JobTitles:       []string{"Backend Engineer"},
		Industries:      []string{"fintech"},
	}
	job := &records.JobRecord{
		Title:              "Senior Backend Engineer",
		SkillsRequired:     []string{"python", "kubernetes"},
		ExperienceRequired: 5,
		Requirements:       []string{"Ship services"},
	}
	return ai.NewSemanticRequest(resume, job)
}

func TestAnalyzerStructuredResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + `{
		"qualification_analysis": "Strong python",
		"competition_analysis": "Average pool",
		"strategic_analysis": "Growth",
		"key_matches": ["python", "aws", "fintech"],
		"gaps": ["kubernetes"],
		"reasoning": "Good fit"
	}` + "\n```"}
	analyzer := NewAnalyzer(stub, 0, zap.NewNop())

	analysis, err := analyzer.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if analysis.Reasoning != "Good fit" {
		t.Fatalf("unexpected reasoning: %q", analysis.Reasoning)
	}
	if len(analysis.KeyMatches) != 3 || len(analysis.Gaps) != 1 {
		t.Fatalf("unexpected lists: %+v / %+v", analysis.KeyMatches, analysis.Gaps)
	}
	if analysis.ConfidenceFactors == nil {
		t.Fatalf("expected confidence factors to be normalized to an empty list")
	}
	if analysis.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}
	if analysis.Degraded {
		t.Fatalf("structured analysis must not be degraded")
	}

	for _, want := range []string{
		"Skills: python, aws",
		"Experience: 6 years",
		"Title: Senior Backend Engineer",
		"Experience Required: 5 years",
		"Industry: Not specified",
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, stub.lastPrompt)
		}
	}
	if stub.lastSystem != systemInstruction {
		t.Fatalf("unexpected system instruction: %q", stub.lastSystem)
	}
}

func TestAnalyzerFallsBackToLineScanning(t *testing.T) {
	stub := &stubGenerator{response: strings.Join([]string{
		"Overall a decent candidate.",
		"Key matches:",
		"- Python experience",
		"• AWS certification",
		"Gaps:",
		"- No Kubernetes",
		"not a bullet",
	}, "\n")}
	analyzer := NewAnalyzer(stub, 0, zap.NewNop())

	analysis, err := analyzer.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(analysis.KeyMatches) != 2 || analysis.KeyMatches[1] != "AWS certification" {
		t.Fatalf("unexpected key matches: %#v", analysis.KeyMatches)
	}
	if len(analysis.Gaps) != 1 || analysis.Gaps[0] != "No Kubernetes" {
		t.Fatalf("unexpected gaps: %#v", analysis.Gaps)
	}
	if analysis.Reasoning != stub.response {
		t.Fatalf("expected reasoning to hold the raw text")
	}
}

func TestAnalyzerPropagatesTransportErrors(t *testing.T) {
	stub := &stubGenerator{err: errors.New("deadline exceeded")}
	analyzer := NewAnalyzer(stub, 0, zap.NewNop())

	if _, err := analyzer.Analyze(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStrictDecoderRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":        "hello",
		"wrong list type": `{"key_matches": "python", "gaps": [], "reasoning": "x"}`,
		"empty":           "  ",
		"array":           `["python"]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := (strictDecoder{}).Decode(raw); err == nil {
				t.Fatalf("expected strict decoding to fail")
			}
		})
	}
}

func TestLineScannerTruncatesReasoning(t *testing.T) {
	raw := strings.Repeat("x", maxFallbackReasoning+10)

	analysis, err := (lineScanner{}).Decode(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := strings.Repeat("x", maxFallbackReasoning) + "..."; analysis.Reasoning != want {
		t.Fatalf("unexpected reasoning length %d", len(analysis.Reasoning))
	}
	if len(analysis.KeyMatches) != 0 || len(analysis.Gaps) != 0 {
		t.Fatalf("expected no sections")
	}
}

type failingDecoder struct{}

func (failingDecoder) Decode(string) (*ai.SemanticAnalysis, error) {
	return nil, errors.New("boom")
}

func TestDecodeWithUsesFallbackOnlyOnFailure(t *testing.T) {
	analysis, err := decodeWith(strictDecoder{}, failingDecoder{}, `{"key_matches": ["a"], "gaps": [], "reasoning": "r"}`)
	if err != nil || analysis == nil || analysis.KeyMatches[0] != "a" {
		t.Fatalf("expected strict result, got %+v (err %v)", analysis, err)
	}

	analysis, err = decodeWith(failingDecoder{}, lineScanner{}, "Strengths:\n- grit")
	if err == nil {
		t.Fatalf("expected strict error to be reported")
	}
	if len(analysis.KeyMatches) != 1 || analysis.KeyMatches[0] != "grit" {
		t.Fatalf("unexpected fallback result: %+v", analysis)
	}
}

func TestAnalyzerKeepsListsWhenReasoningMissing(t *testing.T) {
	stub := &stubGenerator{response: `{"key_matches": ["python", "aws", "fintech", "sql"], "gaps": []}`}
	core, logs := observer.New(zap.WarnLevel)
	analyzer := NewAnalyzer(stub, 0, zap.New(core))

	analysis, err := analyzer.Analyze(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analysis.KeyMatches) != 4 || analysis.KeyMatches[3] != "sql" {
		t.Fatalf("unexpected key matches: %v", analysis.KeyMatches)
	}
	if analysis.Gaps == nil || len(analysis.Gaps) != 0 {
		t.Fatalf("expected empty gaps, got %v", analysis.Gaps)
	}
	if analysis.Reasoning != "" {
		t.Fatalf("expected empty reasoning, got %q", analysis.Reasoning)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no fallback warning, got %d entries", logs.Len())
	}
}
