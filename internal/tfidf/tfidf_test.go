package tfidf

import (
	"math"
	"reflect"
	"testing"
)

const epsilon = 1e-12

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tokenizer Tokenizer
		input     string
		expect    []string
	}{
		{
			name:      "lowercases and splits on punctuation",
			tokenizer: NewTokenizer(0, false),
			input:     "Python/Go developer, CLOUD-native!",
			expect:    []string{"python", "go", "developer", "cloud", "native"},
		},
		{
			name:      "drops single rune tokens by default",
			tokenizer: NewTokenizer(0, false),
			input:     "C x R and Go",
			expect:    []string{"and", "go"},
		},
		{
			name:      "keeps digits and unicode letters",
			tokenizer: NewTokenizer(0, false),
			input:     "Опыт 5 лет, k8s, Müller",
			expect:    []string{"опыт", "лет", "k8s", "müller"},
		},
		{
			name:      "normalizes compatibility forms",
			tokenizer: NewTokenizer(0, false),
			input:     "ＧＯ ｄｅｖ",
			expect:    []string{"go", "dev"},
		},
		{
			name:      "stop words removed when enabled",
			tokenizer: NewTokenizer(0, true),
			input:     "developer with the cloud experience",
			expect:    []string{"developer", "cloud", "experience"},
		},
		{
			name:      "custom minimum length",
			tokenizer: NewTokenizer(4, false),
			input:     "go java rust python",
			expect:    []string{"java", "rust", "python"},
		},
		{
			name:      "zero value tokenizer uses defaults",
			tokenizer: Tokenizer{},
			input:     "a bb ccc",
			expect:    []string{"bb", "ccc"},
		},
		{
			name:      "empty",
			tokenizer: NewTokenizer(0, false),
			input:     "  \n\t ",
			expect:    []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.tokenizer.Tokenize(tt.input)
			if len(got) == 0 && len(tt.expect) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestVectorizeVocabularyAndIDF(t *testing.T) {
	t.Parallel()

	vz := New(NewTokenizer(0, false))
	vocab, vectors := vz.Vectorize([]string{"go go cloud", "go python", ""})

	if !reflect.DeepEqual(vocab.Terms, []string{"cloud", "go", "python"}) {
		t.Fatalf("unexpected terms: %v", vocab.Terms)
	}
	if vocab.Size != 3 {
		t.Fatalf("expected corpus size 3, got %d", vocab.Size)
	}

	// N=3: df(cloud)=1, df(go)=2, df(python)=1.
	expectIDF := []float64{
		math.Log(4.0/2.0) + 1,
		math.Log(4.0/3.0) + 1,
		math.Log(4.0/2.0) + 1,
	}
	for i, want := range expectIDF {
		if math.Abs(vocab.IDF[i]-want) > epsilon {
			t.Fatalf("idf[%s]: expected %v, got %v", vocab.Terms[i], want, vocab.IDF[i])
		}
	}

	if vocab.IDF[1] >= vocab.IDF[0] {
		t.Fatalf("expected rarer term to weigh more")
	}

	// First document: tf(go)=2, tf(cloud)=1.
	cloud := expectIDF[0]
	goW := 2 * expectIDF[1]
	norm := math.Sqrt(cloud*cloud + goW*goW)

	first := vectors[0]
	if !reflect.DeepEqual(first.Indices, []int{0, 1}) {
		t.Fatalf("unexpected indices: %v", first.Indices)
	}
	if math.Abs(first.Weights[0]-cloud/norm) > epsilon || math.Abs(first.Weights[1]-goW/norm) > epsilon {
		t.Fatalf("unexpected weights: %v", first.Weights)
	}

	for i, v := range vectors[:2] {
		if math.Abs(v.Norm()-1) > epsilon {
			t.Fatalf("vector %d is not unit length: %v", i, v.Norm())
		}
	}

	if !vectors[2].IsZero() || vectors[2].Norm() != 0 {
		t.Fatalf("expected empty document to have zero vector, got %+v", vectors[2])
	}

	if idx, ok := vocab.Index("python"); !ok || vocab.Term(idx) != "python" {
		t.Fatalf("expected python in vocabulary")
	}
	if _, ok := vocab.Index("java"); ok {
		t.Fatalf("did not expect java in vocabulary")
	}
}

func TestVectorizeSingleQueryAndEmptyDocuments(t *testing.T) {
	t.Parallel()

	vocab, vectors := New(NewTokenizer(0, false)).Vectorize([]string{"golang engineer", "", ""})

	if vocab.Len() != 2 {
		t.Fatalf("expected 2 terms, got %d", vocab.Len())
	}
	for i, v := range vectors[1:] {
		if !v.IsZero() {
			t.Fatalf("document %d: expected zero vector", i)
		}
		for _, w := range v.Weights {
			if math.IsNaN(w) {
				t.Fatalf("document %d: NaN weight", i)
			}
		}
	}
	if math.Abs(vectors[0].Norm()-1) > epsilon {
		t.Fatalf("expected unit query vector")
	}
}

func TestVectorizeEmptyCorpus(t *testing.T) {
	t.Parallel()

	vocab, vectors := New(NewTokenizer(0, false)).Vectorize(nil)
	if vocab.Len() != 0 || len(vectors) != 0 {
		t.Fatalf("expected empty output, got %d terms and %d vectors", vocab.Len(), len(vectors))
	}
}

func TestVectorizeIsDeterministic(t *testing.T) {
	t.Parallel()

	corpus := []string{
		"senior go engineer kubernetes aws terraform",
		"go engineer with aws and gcp",
		"frontend react typescript engineer",
		"data scientist python pandas aws",
	}

	vz := New(NewTokenizer(0, false))
	_, first := vz.Vectorize(corpus)
	for i := 0; i < 10; i++ {
		_, again := vz.Vectorize(corpus)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("vectorization is not deterministic")
		}
	}
}

func TestVectorDotAndWeight(t *testing.T) {
	t.Parallel()

	a := Vector{Indices: []int{1, 3, 5}, Weights: []float64{1, 2, 3}}
	b := Vector{Indices: []int{0, 3, 5, 7}, Weights: []float64{4, 5, 6, 7}}

	if got := a.Dot(b); got != 2*5+3*6 {
		t.Fatalf("unexpected dot: %v", got)
	}
	if got := a.Dot(Vector{}); got != 0 {
		t.Fatalf("expected zero dot with empty vector, got %v", got)
	}

	if a.Weight(3) != 2 || a.Weight(4) != 0 || a.Weight(0) != 0 || a.Weight(9) != 0 {
		t.Fatalf("unexpected weight lookup")
	}

	var shared []int
	a.Overlap(b, func(idx int, _, _ float64) { shared = append(shared, idx) })
	if !reflect.DeepEqual(shared, []int{3, 5}) {
		t.Fatalf("unexpected overlap: %v", shared)
	}

	n := a.Normalize()
	if math.Abs(n.Norm()-1) > epsilon {
		t.Fatalf("expected unit norm, got %v", n.Norm())
	}
	if a.Weights[0] != 1 {
		t.Fatalf("normalize must not modify the receiver")
	}
}
