package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFieldsSkipsBlankPairs(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  job_id  ", Value: "  42  "},
		StringField{Key: "resume_id", Value: "   "},
		StringField{Key: "   ", Value: "orphan"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "job_id" || fields[0].String != "42" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
	if got := StringFields(); len(got) != 0 {
		t.Fatalf("expected no fields, got %d", len(got))
	}
}

func TestLoggerHelpersAttachContext(t *testing.T) {
	tests := []struct {
		name   string
		build  func(*zap.Logger) *zap.Logger
		expect map[string]string
		absent []string
	}{
		{
			name:   "provider and model",
			build:  func(l *zap.Logger) *zap.Logger { return WithCommonFields(l, " gemini ", "gemini-2.5-flash") },
			expect: map[string]string{FieldProvider: "gemini", FieldModel: "gemini-2.5-flash"},
		},
		{
			name:   "analysis pair with blank job",
			build:  func(l *zap.Logger) *zap.Logger { return ForAnalysis(l, "cv-1", " ") },
			expect: map[string]string{FieldResumeID: "cv-1"},
			absent: []string{FieldJobID},
		},
		{
			name:   "raw zap fields",
			build:  func(l *zap.Logger) *zap.Logger { return WithFields(l, zap.String("request_id", "r-1")) },
			expect: map[string]string{"request_id": "r-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.DebugLevel)
			tt.build(zap.New(core)).Debug("scored")

			entries := observed.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}

			ctx := entries[0].ContextMap()
			for key, want := range tt.expect {
				if ctx[key] != want {
					t.Fatalf("field %s: expected %q, got %v", key, want, ctx[key])
				}
			}
			for _, key := range tt.absent {
				if _, ok := ctx[key]; ok {
					t.Fatalf("expected %s to be omitted", key)
				}
			}
		})
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	for _, l := range []*zap.Logger{
		WithFields(nil, zap.String("k", "v")),
		WithCommonFields(nil, "gemini", "m"),
		ForAnalysis(nil, "cv", "job"),
	} {
		if l == nil {
			t.Fatalf("expected a no-op logger")
		}
		l.Info("does not panic")
	}
}
