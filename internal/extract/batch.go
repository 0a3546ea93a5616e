package extract

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-ranker/internal/document"
)

// ExtractAll extracts every document concurrently and returns the results in
// input order. A failing document does not cancel its siblings.
func (e *Extractor) ExtractAll(ctx context.Context, docs []*document.Document) []ExtractedText {
	results := make([]ExtractedText, len(docs))
	if len(docs) == 0 {
		return results
	}

	// A plain group, not WithContext: no sibling is cancelled on failure.
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			results[i] = e.Extract(ctx, doc)
			return nil
		})
	}

	_ = g.Wait()

	e.logger.Debug("batch extraction completed",
		zap.Int("documents", len(docs)),
		zap.Int("failed", Failed(results)),
		zap.Int("workers", e.cfg.Workers),
	)

	return results
}
