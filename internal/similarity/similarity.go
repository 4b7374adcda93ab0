// Package similarity scores how close two skill sets are lexically.
package similarity

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

const defaultMaxFeatures = 1000

// ErrEmptyVocabulary is returned by Vectorizer.Cosine when no term survives
// tokenization and stop-word removal.
var ErrEmptyVocabulary = errors.New("empty vocabulary; documents only contain stop words")

// Vectorizer builds TF-IDF vectors over a small corpus. It holds only
// configuration and is safe to share between goroutines.
type Vectorizer struct {
	MaxFeatures int
	StopWords   map[string]struct{}
}

// NewVectorizer returns a vectorizer using English stop words and a
// vocabulary capped at 1000 terms.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		MaxFeatures: defaultMaxFeatures,
		StopWords:   englishStopWords,
	}
}

// Similarity returns a score in [0,1] for candidate skills against required
// skills. Either list being empty yields 0. When vectorization is not possible
// it falls back to SubstringMatch.
func (v *Vectorizer) Similarity(candidate, required []string) float64 {
	if len(candidate) == 0 || len(required) == 0 {
		return 0
	}

	score, err := v.Cosine(strings.Join(candidate, " "), strings.Join(required, " "))
	if err != nil {
		return SubstringMatch(candidate, required)
	}

	return score
}

// Cosine fits TF-IDF on the two documents and returns their cosine similarity.
func (v *Vectorizer) Cosine(a, b string) (float64, error) {
	docs := [][]string{v.tokenize(a), v.tokenize(b)}

	vocabulary := v.vocabulary(docs)
	if len(vocabulary) == 0 {
		return 0, ErrEmptyVocabulary
	}

	idf := make(map[string]float64, len(vocabulary))
	n := float64(len(docs))
	for _, term := range vocabulary {
		df := 0.0
		for _, doc := range docs {
			if contains(doc, term) {
				df++
			}
		}
		idf[term] = math.Log((1+n)/(1+df)) + 1
	}

	va := weigh(docs[0], vocabulary, idf)
	vb := weigh(docs[1], vocabulary, idf)

	var dot, normA, normB float64
	for i := range vocabulary {
		dot += va[i] * vb[i]
		normA += va[i] * va[i]
		normB += vb[i] * vb[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}

// SubstringMatch is the fraction of required skills that contain, or are
// contained in, at least one candidate skill (case-insensitive).
func SubstringMatch(candidate, required []string) float64 {
	if len(required) == 0 {
		return 0
	}

	lowered := make([]string, 0, len(candidate))
	for _, skill := range candidate {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(skill)))
	}

	matches := 0
	for _, skill := range required {
		want := strings.ToLower(strings.TrimSpace(skill))
		for _, have := range lowered {
			if strings.Contains(have, want) || strings.Contains(want, have) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(required))
}

// tokenize lower-cases text and keeps word tokens of two or more characters
// that are not stop words.
func (v *Vectorizer) tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_')
	})

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < 2 {
			continue
		}
		if _, stop := v.StopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// vocabulary returns the sorted terms of the corpus, restricted to the
// MaxFeatures most frequent ones.
func (v *Vectorizer) vocabulary(docs [][]string) []string {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return counts[terms[i]] > counts[terms[j]]
		})
		terms = terms[:v.MaxFeatures]
		sort.Strings(terms)
	}

	return terms
}

func weigh(doc, vocabulary []string, idf map[string]float64) []float64 {
	tf := make(map[string]float64, len(doc))
	for _, term := range doc {
		tf[term]++
	}

	vec := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		vec[i] = tf[term] * idf[term]
	}
	return vec
}

func contains(doc []string, term string) bool {
	for _, t := range doc {
		if t == term {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
