package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared across packages.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldResumeID = "resume_id"
	FieldJobID    = "job_id"
)

// StringField is a key/value pair that becomes a zap string field.
type StringField struct {
	Key   string
	Value string
}

// StringFields trims keys and values and skips pairs where either is blank,
// so optional identifiers never show up as empty log attributes.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields describes the semantic analysis provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// AnalysisFields identify one résumé/job scoring invocation.
func AnalysisFields(resumeID, jobID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldResumeID, Value: resumeID},
		StringField{Key: FieldJobID, Value: jobID},
	)
}

func ForAnalysis(logger *zap.Logger, resumeID, jobID string) *zap.Logger {
	return WithFields(logger, AnalysisFields(resumeID, jobID)...)
}
