package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityEmptyInputs(t *testing.T) {
	v := NewVectorizer()

	assert.Zero(t, v.Similarity(nil, []string{"python"}))
	assert.Zero(t, v.Similarity([]string{"python"}, nil))
	assert.Zero(t, v.Similarity([]string{}, []string{}))
}

func TestSimilaritySharedTerm(t *testing.T) {
	v := NewVectorizer()

	score := v.Similarity([]string{"python", "aws", "docker"}, []string{"python", "kubernetes"})

	// idf(python)=1, idf(other)=ln(1.5)+1; cos = 1 / (|a| * |b|).
	assert.InDelta(t, 0.2607, score, 1e-3)
}

func TestSimilarityBounds(t *testing.T) {
	v := NewVectorizer()

	cases := []struct {
		a, b []string
	}{
		{[]string{"python"}, []string{"python"}},
		{[]string{"golang", "grpc"}, []string{"java"}},
		{[]string{"machine learning", "pytorch"}, []string{"machine learning engineer", "pytorch", "sql"}},
	}

	for _, tc := range cases {
		ab := v.Similarity(tc.a, tc.b)
		ba := v.Similarity(tc.b, tc.a)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
		assert.GreaterOrEqual(t, ba, 0.0)
		assert.LessOrEqual(t, ba, 1.0)
	}

	assert.InDelta(t, 1.0, v.Similarity([]string{"python"}, []string{"Python"}), 1e-9)
	assert.Zero(t, v.Similarity([]string{"golang"}, []string{"java"}))
}

func TestCosineEmptyVocabulary(t *testing.T) {
	v := NewVectorizer()

	_, err := v.Cosine("the and", "a c")
	require.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestSimilarityFallsBackToSubstringMatch(t *testing.T) {
	v := NewVectorizer()

	// "go" is a stop word and "c" is a single character, so vectorization
	// has no vocabulary and the substring fallback applies.
	score := v.Similarity([]string{"Go", "C"}, []string{"go", "c", "the"})
	assert.InDelta(t, 2.0/3.0, score, 1e-9)
}

func TestSubstringMatch(t *testing.T) {
	assert.InDelta(t, 1.0, SubstringMatch([]string{"PostgreSQL"}, []string{"sql"}), 1e-9)
	assert.InDelta(t, 0.5, SubstringMatch([]string{"aws lambda"}, []string{"aws", "gcp"}), 1e-9)
	assert.Zero(t, SubstringMatch([]string{"aws"}, nil))
}

func TestVocabularyCap(t *testing.T) {
	v := &Vectorizer{MaxFeatures: 2, StopWords: englishStopWords}

	terms := v.vocabulary([][]string{{"rust", "rust", "zig"}, {"rust", "kafka", "kafka"}})
	assert.Equal(t, []string{"kafka", "rust"}, terms)
}

func TestTokenizeKeepsCombiningMarks(t *testing.T) {
	v := NewVectorizer()

	// "café" with a decomposed accent stays a single token.
	assert.Equal(t, []string{"cafe\u0301", "ops"}, v.tokenize("Cafe\u0301 ops"))
	assert.InDelta(t, 1.0, v.Similarity([]string{"cafe\u0301"}, []string{"cafe\u0301"}), 1e-9)
}
