package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// ErrNoJobs is returned when a jobs file holds no postings.
var ErrNoJobs = errors.New("no job postings found")

// LoadResume reads a single résumé from a JSON file.
func LoadResume(path string) (*ResumeProfile, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	item, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("resume file %q must contain a JSON object", path)
	}

	return DecodeResume(item)
}

// LoadJobs reads job postings from a JSON file holding either one object or
// an array of objects.
func LoadJobs(path string) (*Jobs, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}

	var items []any
	switch typed := raw.(type) {
	case map[string]any:
		items = []any{typed}
	case []any:
		items = typed
	default:
		return nil, fmt.Errorf("jobs file %q must contain a JSON object or array", path)
	}

	jobs := &Jobs{Items: make([]*JobRecord, 0, len(items))}
	for idx, item := range items {
		job, err := DecodeJob(item)
		if err != nil {
			return nil, fmt.Errorf("job #%d: %w", idx, err)
		}
		jobs.Items = append(jobs.Items, job)
	}

	if jobs.Len() == 0 {
		return nil, ErrNoJobs
	}

	return jobs, nil
}

// DecodeResume converts a loosely typed map (as produced by a parsing
// collaborator) into a validated résumé. Numbers given as strings and single
// strings given in place of lists are accepted. A missing ID is generated.
func DecodeResume(input any) (*ResumeProfile, error) {
	var resume ResumeProfile
	if err := decode(input, &resume); err != nil {
		return nil, fmt.Errorf("decode resume: %w", err)
	}

	resume.ID = ensureID(resume.ID)
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume: %w", err)
	}

	return &resume, nil
}

// DecodeJob is the job posting counterpart of DecodeResume.
func DecodeJob(input any) (*JobRecord, error) {
	var job JobRecord
	if err := decode(input, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}

	job.ID = ensureID(job.ID)
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %q: %w", job.ID, err)
	}

	return &job, nil
}

func decode(input any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

func ensureID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}

	return raw, nil
}
