package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/records"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a step that removes jobs listed in the exclude file.
// It must run before scoring.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, b *Batch) (*Batch, Step, error) {
	initial := b.Len()
	if f.path == "" {
		return b, Step{Initial: initial, Left: initial}, nil
	}
	if b.Scored() {
		return b, Step{}, fmt.Errorf("exclude file must be applied before scoring")
	}

	excluded, err := records.LoadExcluded(f.path)
	if err != nil {
		return b, Step{}, fmt.Errorf("getting excluded jobs from file: %w", err)
	}

	removed := b.Jobs.Exclude(excluded.IDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding jobs based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", b.Jobs.Len()),
		)
	}

	return b, Step{Initial: initial, Dropped: len(removed), Left: b.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
