package ranking

import (
	"sort"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/tfidf"
)

// DefaultMatchedTerms is how many shared terms are reported per result.
const DefaultMatchedTerms = 5

// Candidate is a named document vector in input order.
type Candidate struct {
	Name   string
	Vector tfidf.Vector

	Format    document.Format
	Extracted bool
	Error     string
}

// Result is one ranked document.
type Result struct {
	Name string `json:"name" yaml:"name"`
	// Score is the cosine similarity to the query, within [0,1].
	Score float64 `json:"score" yaml:"score"`
	// Rank is the 1-based position after sorting.
	Rank int `json:"rank" yaml:"rank"`
	// Position is the 0-based index of the document in the input.
	Position int `json:"position" yaml:"position"`

	Format    document.Format `json:"format" yaml:"format"`
	Extracted bool            `json:"extracted" yaml:"extracted"`
	// Error is the extraction error of a document that could not be read.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// MatchedTerms are the shared terms contributing most to Score.
	MatchedTerms []string `json:"matched_terms,omitempty" yaml:"matched_terms,omitempty"`
}

// Ranker scores candidates against a query over one request's Vocabulary.
type Ranker struct {
	vocab        *tfidf.Vocabulary
	matchedTerms int
}

// New returns a Ranker bound to the vocabulary the vectors were built with.
// matchedTerms limits MatchedTerms per result; zero disables them.
func New(vocab *tfidf.Vocabulary, matchedTerms int) *Ranker {
	if matchedTerms < 0 {
		matchedTerms = 0
	}
	return &Ranker{vocab: vocab, matchedTerms: matchedTerms}
}

// Score is the cosine similarity of two unit (or zero) vectors, clamped to [0,1].
// A zero vector scores exactly 0.
func Score(query, doc tfidf.Vector) float64 {
	if query.IsZero() || doc.IsZero() {
		return 0
	}
	return clamp01(query.Dot(doc))
}

// Rank scores every candidate and sorts descending by score. Equal scores keep
// their input order.
func (r *Ranker) Rank(query tfidf.Vector, candidates []Candidate) []Result {
	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{
			Name:         c.Name,
			Score:        Score(query, c.Vector),
			Position:     i,
			Format:       c.Format,
			Extracted:    c.Extracted,
			Error:        c.Error,
			MatchedTerms: r.topTerms(query, c.Vector),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

func (r *Ranker) topTerms(query, doc tfidf.Vector) []string {
	if r.matchedTerms == 0 || r.vocab == nil {
		return nil
	}

	type contribution struct {
		idx   int
		value float64
	}

	var shared []contribution
	query.Overlap(doc, func(idx int, a, b float64) {
		if v := a * b; v > 0 {
			shared = append(shared, contribution{idx: idx, value: v})
		}
	})

	// shared is already in index (alphabetical) order, which breaks ties.
	sort.SliceStable(shared, func(i, j int) bool {
		return shared[i].value > shared[j].value
	})

	if len(shared) == 0 {
		return nil
	}
	if len(shared) > r.matchedTerms {
		shared = shared[:r.matchedTerms]
	}

	terms := make([]string, 0, len(shared))
	for _, c := range shared {
		terms = append(terms, r.vocab.Term(c.idx))
	}

	return terms
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
