package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"github.com/spigell/job-matcher/internal/ai"
)

//go:embed schema.json
var analysisSchema string

const maxFallbackReasoning = 500

var schemaLoader = gojsonschema.NewStringLoader(analysisSchema)

// analysisDecoder turns raw provider output into an analysis.
type analysisDecoder interface {
	Decode(raw string) (*ai.SemanticAnalysis, error)
}

// decodeAnalysis uses the strict decoder and only falls back to the line
// scanner when strict decoding fails. The analysis is never nil; strictErr is
// non-nil exactly when the fallback produced it.
func decodeAnalysis(raw string) (analysis *ai.SemanticAnalysis, strictErr error) {
	return decodeWith(strictDecoder{}, lineScanner{}, raw)
}

func decodeWith(strict, fallback analysisDecoder, raw string) (*ai.SemanticAnalysis, error) {
	analysis, strictErr := strict.Decode(raw)
	if strictErr == nil {
		return analysis, nil
	}

	analysis, _ = fallback.Decode(raw)
	return analysis, strictErr
}

// strictDecoder accepts JSON objects whose fields have the types of the
// analysis schema. Absent fields decode to their empty values.
type strictDecoder struct{}

func (strictDecoder) Decode(raw string) (*ai.SemanticAnalysis, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, ai.ErrEmptyResponse
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, fmt.Errorf("analysis does not match schema: %s", strings.Join(problems, "; "))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	var analysis ai.SemanticAnalysis
	if err := mapstructure.Decode(data, &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	normalize(&analysis)
	return &analysis, nil
}

// lineScanner extracts best-effort values from unstructured text: section
// headers open a list and bullet lines are collected into it.
type lineScanner struct{}

func (lineScanner) Decode(raw string) (*ai.SemanticAnalysis, error) {
	analysis := &ai.SemanticAnalysis{
		Reasoning: truncateReasoning(raw),
	}
	normalize(analysis)

	var section *[]string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "matches:") || strings.Contains(lower, "strengths:"):
			section = &analysis.KeyMatches
		case strings.Contains(lower, "gaps:") || strings.Contains(lower, "weaknesses:"):
			section = &analysis.Gaps
		case line != "" && section != nil && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")):
			_, size := utf8.DecodeRuneInString(line)
			*section = append(*section, strings.TrimSpace(line[size:]))
		}
	}

	if strings.TrimSpace(raw) == "" {
		return analysis, errors.New("nothing to scan")
	}
	return analysis, nil
}

func truncateReasoning(raw string) string {
	runes := []rune(raw)
	if len(runes) > maxFallbackReasoning {
		return string(runes[:maxFallbackReasoning]) + "..."
	}
	return raw
}

func normalize(analysis *ai.SemanticAnalysis) {
	if analysis.KeyMatches == nil {
		analysis.KeyMatches = []string{}
	}
	if analysis.Gaps == nil {
		analysis.Gaps = []string{}
	}
	if analysis.ConfidenceFactors == nil {
		analysis.ConfidenceFactors = []string{}
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
