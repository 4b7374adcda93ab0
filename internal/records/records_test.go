package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadResumeWeaklyTyped(t *testing.T) {
	path := writeFile(t, "resume.json", `{
		"id": "cv-1",
		"skills": ["python", "aws"],
		"experience_years": "6",
		"education": "BSc Computer Science",
		"industries": ["fintech"]
	}`)

	resume, err := LoadResume(path)
	require.NoError(t, err)

	assert.Equal(t, "cv-1", resume.ID)
	assert.Equal(t, 6, resume.ExperienceYears)
	assert.Equal(t, []string{"BSc Computer Science"}, resume.Education)
	assert.Equal(t, []string{"python", "aws"}, resume.Skills)
}

func TestLoadResumeRejectsNegativeExperience(t *testing.T) {
	path := writeFile(t, "resume.json", `{"experience_years": -1}`)

	_, err := LoadResume(path)
	require.Error(t, err)
}

func TestLoadJobsAssignsMissingIDs(t *testing.T) {
	path := writeFile(t, "jobs.json", `[
		{"id": "job-1", "title": "Backend Engineer", "skills_required": ["go"]},
		{"title": "Data Engineer", "experience_required": 3}
	]`)

	jobs, err := LoadJobs(path)
	require.NoError(t, err)
	require.Equal(t, 2, jobs.Len())

	assert.Equal(t, "job-1", jobs.Items[0].ID)
	_, err = uuid.Parse(jobs.Items[1].ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, jobs.Items[1].ExperienceRequired)
}

func TestLoadJobsSingleObjectAndErrors(t *testing.T) {
	jobs, err := LoadJobs(writeFile(t, "job.json", `{"id": "j", "title": "SRE"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, jobs.Len())

	_, err = LoadJobs(writeFile(t, "empty.json", `[]`))
	assert.ErrorIs(t, err, ErrNoJobs)

	_, err = LoadJobs(writeFile(t, "untitled.json", `[{"id": "x"}]`))
	assert.Error(t, err)

	_, err = LoadJobs(writeFile(t, "scalar.json", `42`))
	assert.Error(t, err)
}

func TestJobsExcludeKeepsOrder(t *testing.T) {
	jobs := &Jobs{Items: []*JobRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}}

	removed := jobs.Exclude([]string{"c", "a", "zzz"})

	assert.ElementsMatch(t, []string{"a", "c"}, removed)
	require.Equal(t, 2, jobs.Len())
	assert.Equal(t, "b", jobs.Items[0].ID)
	assert.Equal(t, "d", jobs.Items[1].ID)
	assert.Nil(t, jobs.FindByID("a"))
	assert.NotNil(t, jobs.FindByID("d"))
}

func TestExcludedRoundTripDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	excluded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Empty(t, excluded.IDs())

	jobs := &Jobs{Items: []*JobRecord{{ID: "a", Company: "Acme"}, {ID: "b"}}}
	excluded.Append(jobs.Excluded(ExcludeActorMatcher, "skip"))
	excluded.Append(jobs.Excluded(ExcludeActorUser, ""))
	require.NoError(t, excluded.ToFile(path))

	reloaded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reloaded.IDs())
	assert.Equal(t, ExcludeActorMatcher, reloaded.Items[0].Actor)
	assert.Equal(t, "Acme", reloaded.Items[0].Company)
}
