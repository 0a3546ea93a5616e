// Package pipeline ties extraction, vectorization and ranking into one request.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/tfidf"
)

// ErrInvalidInput is returned when a request cannot be processed at all.
var ErrInvalidInput = errors.New("invalid input")

type Status string

const (
	// StatusNoInput means the request was rejected before processing.
	StatusNoInput Status = "no_input"
	// StatusNoMatches means every document scored zero.
	StatusNoMatches Status = "no_matches"
	// StatusRanked means at least one document scored above zero.
	StatusRanked Status = "ranked"
)

// Outcome is everything a caller gets back from Process.
type Outcome struct {
	Status  Status           `json:"status" yaml:"status"`
	Results []ranking.Result `json:"results" yaml:"results"`
	// Documents holds the extraction outcome of every document in input order.
	Documents      []extract.ExtractedText `json:"-" yaml:"-"`
	Failures       int                     `json:"failures" yaml:"failures"`
	VocabularySize int                     `json:"vocabulary_size" yaml:"vocabulary_size"`
}

// Config controls a Pipeline.
type Config struct {
	Extraction extract.Config
	// MinTokenLength is the shortest token kept, in runes. Zero uses the default.
	MinTokenLength int
	StopWords      bool
	// MatchedTerms limits the shared terms reported per result.
	MatchedTerms int
}

type Pipeline struct {
	extractor    *extract.Extractor
	vectorizer   *tfidf.Vectorizer
	matchedTerms int
	logger       *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Pipeline {
	log = logger.WithFields(log)

	return &Pipeline{
		extractor:    extract.New(cfg.Extraction, log),
		vectorizer:   tfidf.New(tfidf.NewTokenizer(cfg.MinTokenLength, cfg.StopWords)),
		matchedTerms: cfg.MatchedTerms,
		logger:       log,
	}
}

// Extractor exposes the extractor registry, e.g. to register another format.
func (p *Pipeline) Extractor() *extract.Extractor {
	return p.extractor
}

// Process ranks docs against query. Documents that fail to extract are kept
// with a zero score; only an unusable request returns an error.
//
// Failed documents do not take part in the IDF fit, so the weights of the
// remaining documents differ from a corpus that counts them as empty text.
func (p *Pipeline) Process(ctx context.Context, query string, docs []*document.Document) (*Outcome, error) {
	if err := validate(query, docs); err != nil {
		return &Outcome{Status: StatusNoInput}, err
	}

	start := time.Now()
	log := logger.WithRequest(p.logger, uuid.NewString())

	log.Debug("processing request",
		zap.Int("documents", len(docs)),
		zap.Int("query_chars", len([]rune(query))),
	)

	texts := p.extractor.WithLogger(log).ExtractAll(ctx, docs)

	// Failed documents stay out of the corpus so they cannot shift the IDF
	// weights of the documents that were read.
	corpus := make([]string, 0, len(texts)+1)
	corpus = append(corpus, query)
	slots := make([]int, len(texts))
	for i, t := range texts {
		slots[i] = -1
		if t.Succeeded {
			slots[i] = len(corpus)
			corpus = append(corpus, t.Text)
		}
	}

	vocab, vectors := p.vectorizer.Vectorize(corpus)

	candidates := make([]ranking.Candidate, len(texts))
	for i, t := range texts {
		candidates[i] = ranking.Candidate{
			Name:      docs[i].Name,
			Format:    docs[i].Format,
			Extracted: t.Succeeded,
		}
		if slots[i] >= 0 {
			candidates[i].Vector = vectors[slots[i]]
		}
		if t.Err != nil {
			candidates[i].Error = t.Err.Error()
		}
	}

	results := ranking.New(vocab, p.matchedTerms).Rank(vectors[0], candidates)

	outcome := &Outcome{
		Status:         status(results),
		Results:        results,
		Documents:      texts,
		Failures:       extract.Failed(texts),
		VocabularySize: vocab.Len(),
	}

	log.Info("request processed",
		zap.String("status", string(outcome.Status)),
		zap.Int("documents", len(docs)),
		zap.Int("failures", outcome.Failures),
		zap.Int("vocabulary", outcome.VocabularySize),
		zap.Duration("elapsed", time.Since(start)),
	)

	return outcome, nil
}

// Preview extracts docs without ranking them.
func (p *Pipeline) Preview(ctx context.Context, docs []*document.Document) []extract.ExtractedText {
	return p.extractor.ExtractAll(ctx, docs)
}

func validate(query string, docs []*document.Document) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: job description is empty", ErrInvalidInput)
	}

	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents", ErrInvalidInput)
	}

	for i, doc := range docs {
		if doc == nil {
			return fmt.Errorf("%w: document %d is nil", ErrInvalidInput, i)
		}
	}

	set := document.Documents{Items: docs}
	if dups := set.Duplicates(); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate document names: %s", ErrInvalidInput, strings.Join(dups, ", "))
	}

	return nil
}

func status(results []ranking.Result) Status {
	// Results are sorted, so the first one carries the highest score.
	if len(results) == 0 || results[0].Score == 0 {
		return StatusNoMatches
	}
	return StatusRanked
}
