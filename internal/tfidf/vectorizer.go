// Package tfidf builds request-scoped TF-IDF vectors.
//
// A Vocabulary is fitted on one corpus and is never shared between corpora.
// All iteration happens in sorted term order so that results are bit-for-bit
// reproducible.
package tfidf

import (
	"math"
	"sort"
)

// Vocabulary holds the terms of one corpus and their smoothed IDF weights.
type Vocabulary struct {
	// Terms are the distinct corpus terms, sorted.
	Terms []string
	// IDF[i] is the weight of Terms[i]: ln((1+N)/(1+df)) + 1.
	IDF []float64
	// Size is N, the number of corpus entries the vocabulary was fitted on.
	Size int

	index map[string]int
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Terms)
}

// Index returns the position of term in Terms.
func (v *Vocabulary) Index(term string) (int, bool) {
	if v == nil {
		return 0, false
	}
	idx, ok := v.index[term]
	return idx, ok
}

// Term returns the term stored at idx.
func (v *Vocabulary) Term(idx int) string {
	if v == nil || idx < 0 || idx >= len(v.Terms) {
		return ""
	}
	return v.Terms[idx]
}

// Vectorizer turns a corpus into L2-normalized TF-IDF vectors.
type Vectorizer struct {
	tokenizer Tokenizer
}

func New(tokenizer Tokenizer) *Vectorizer {
	return &Vectorizer{tokenizer: tokenizer}
}

// Tokenizer returns the tokenizer shared by every corpus entry.
func (vz *Vectorizer) Tokenizer() Tokenizer {
	return vz.tokenizer
}

// Vectorize fits a fresh Vocabulary on corpus and returns one vector per entry
// in the same order. Entries without terms get an all-zero vector.
func (vz *Vectorizer) Vectorize(corpus []string) (*Vocabulary, []Vector) {
	counts := make([]map[string]int, len(corpus))
	df := make(map[string]int)

	for i, text := range corpus {
		tf := make(map[string]int)
		for _, token := range vz.tokenizer.Tokenize(text) {
			tf[token]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	vocab := fit(df, len(corpus))

	vectors := make([]Vector, len(corpus))
	for i, tf := range counts {
		vectors[i] = vocab.weigh(tf)
	}

	return vocab, vectors
}

func fit(df map[string]int, size int) *Vocabulary {
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := &Vocabulary{
		Terms: terms,
		IDF:   make([]float64, len(terms)),
		Size:  size,
		index: make(map[string]int, len(terms)),
	}

	n := float64(size)
	for i, term := range terms {
		vocab.index[term] = i
		vocab.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return vocab
}

func (v *Vocabulary) weigh(tf map[string]int) Vector {
	indices := make([]int, 0, len(tf))
	for term := range tf {
		if idx, ok := v.index[term]; ok {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	weights := make([]float64, len(indices))
	for i, idx := range indices {
		weights[i] = float64(tf[v.Terms[idx]]) * v.IDF[idx]
	}

	return Vector{Indices: indices, Weights: weights}.Normalize()
}
