// Package tfidf builds TF-IDF vectors for a small corpus and compares them
// with cosine similarity.
package tfidf

import (
	_ "embed"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

//go:embed stopwords_en.txt
var englishStopWords string

// ErrEmptyVocabulary is returned when no document contributes a single term,
// e.g. the corpus is made of stop words only.
var ErrEmptyVocabulary = errors.New("empty vocabulary; perhaps the documents only contain stop words")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector is a sparse row indexed by vocabulary position.
type Vector map[int]float64

// Matrix holds one L2-normalized row per corpus document.
type Matrix struct {
	Vocabulary map[string]int
	Rows       []Vector
}

// Vectorizer turns documents into word n-grams and weights them with
// smoothed inverse document frequency.
type Vectorizer struct {
	stopWords map[string]struct{}
	minN      int
	maxN      int
}

// New returns a vectorizer using the English stop-word list and unigrams
// plus bigrams.
func New() *Vectorizer {
	stop := make(map[string]struct{})
	for _, w := range strings.Fields(englishStopWords) {
		stop[w] = struct{}{}
	}
	return &Vectorizer{stopWords: stop, minN: 1, maxN: 2}
}

// IsStopWord reports whether w is dropped before weighting.
func (v *Vectorizer) IsStopWord(w string) bool {
	_, ok := v.stopWords[w]
	return ok
}

// Analyze lowercases doc, tokenizes it, drops stop words and returns the
// n-grams of what is left.
func (v *Vectorizer) Analyze(doc string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(doc), -1)

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if !v.IsStopWord(t) {
			tokens = append(tokens, t)
		}
	}

	terms := make([]string, 0, len(tokens)*(v.maxN-v.minN+1))
	for n := v.minN; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform builds the vocabulary from exactly this corpus and returns its
// TF-IDF rows in corpus order.
func (v *Vectorizer) FitTransform(corpus []string) (*Matrix, error) {
	counts := make([]map[string]int, len(corpus))
	df := make(map[string]int)

	for i, doc := range corpus {
		c := make(map[string]int)
		for _, term := range v.Analyze(doc) {
			c[term]++
		}
		for term := range c {
			df[term]++
		}
		counts[i] = c
	}

	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	rows := make([]Vector, len(corpus))
	for i, c := range counts {
		row := make(Vector, len(c))
		for term, count := range c {
			idx := vocab[term]
			row[idx] = float64(count) * idf[idx]
		}
		if norm := row.norm(); norm > 0 {
			for idx := range row {
				row[idx] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}, nil
}

// Cosine returns the cosine similarity of a and b. A zero vector yields 0.
// The result is clamped to [0, 1]; TF-IDF weights are never negative.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	na, nb := a.norm(), b.norm()
	if na == 0 || nb == 0 {
		return 0
	}

	var dot float64
	for _, idx := range a.indices() {
		if y, ok := b[idx]; ok {
			dot += a[idx] * y
		}
	}

	sim := dot / (na * nb)
	return math.Max(0, math.Min(1, sim))
}

// indices returns the populated positions in ascending order. Summing in a
// fixed order keeps equal documents at bit-identical scores.
func (v Vector) indices() []int {
	idx := make([]int, 0, len(v))
	for i := range v {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

func (v Vector) norm() float64 {
	var sum float64
	for _, i := range v.indices() {
		sum += v[i] * v[i]
	}
	return math.Sqrt(sum)
}
