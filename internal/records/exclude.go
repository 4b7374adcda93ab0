package records

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

const (
	// ExcludeActorUser marks entries added manually from the batch menu.
	ExcludeActorUser = "user"
	// ExcludeActorMatcher marks entries added because the engine recommended skipping.
	ExcludeActorMatcher = "matcher"
)

// ExcludedJobs is the content of an exclude file: postings that should not
// be scored again.
type ExcludedJobs struct {
	Items []*ExcludedJob
}

type ExcludedJob struct {
	ID         string
	URL        string
	Company    string
	Actor      string `json:",omitempty"`
	Reason     string `json:",omitempty"`
	ExcludedAt time.Time
}

// Excluded converts jobs into exclude file entries.
func (j *Jobs) Excluded(actor, reason string) *ExcludedJobs {
	excluded := &ExcludedJobs{}
	now := time.Now().UTC()
	for _, job := range j.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			ID:         job.ID,
			URL:        job.URL,
			Company:    job.Company,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

// LoadExcluded reads an exclude file. A missing or empty file yields an
// empty list.
func LoadExcluded(path string) (*ExcludedJobs, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ExcludedJobs{}, nil
	}
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &ExcludedJobs{}, nil
	}

	var excluded ExcludedJobs
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

// Append adds entries whose IDs are not yet present.
func (e *ExcludedJobs) Append(other *ExcludedJobs) {
	seen := make(map[string]struct{}, len(e.Items))
	for _, item := range e.Items {
		seen[item.ID] = struct{}{}
	}

	for _, item := range other.Items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		e.Items = append(e.Items, item)
	}
}

func (e *ExcludedJobs) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (e *ExcludedJobs) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
