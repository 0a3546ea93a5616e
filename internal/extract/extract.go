// Package extract turns uploaded document bytes into plain text.
//
// Extraction never fails a batch: every problem is recorded on the
// ExtractedText of the document it belongs to.
package extract

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/logger"
)

var (
	// ErrExtractionFailure marks malformed content, a wrong declared format or undecodable bytes.
	ErrExtractionFailure = errors.New("extraction failure")
	// ErrUnsupportedFormat marks a format tag without a registered extractor.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// FormatExtractor extracts text from the raw bytes of a single format.
type FormatExtractor interface {
	Extract(ctx context.Context, data []byte) (Result, error)
}

// Result is what a FormatExtractor produces for one document.
type Result struct {
	Text  string
	Pages int
}

// ExtractedText is the outcome for one document. Text is empty and Succeeded
// is false when Err is set.
type ExtractedText struct {
	DocumentName string
	Format       document.Format
	Text         string
	Pages        int
	Succeeded    bool
	Err          error
	Duration     time.Duration
}

// Config controls batch extraction.
type Config struct {
	// Workers bounds concurrent extractions. Zero means GOMAXPROCS.
	Workers int
	// Timeout applies to each document separately. Zero disables it.
	Timeout time.Duration
}

// Extractor dispatches documents to the extractor registered for their format.
type Extractor struct {
	cfg     Config
	formats map[document.Format]FormatExtractor
	logger  *zap.Logger
}

// New returns an Extractor with the PDF, DOCX and plain text extractors registered.
func New(cfg Config, log *zap.Logger) *Extractor {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}

	e := &Extractor{
		cfg:     cfg,
		formats: make(map[document.Format]FormatExtractor),
		logger:  logger.WithFields(log),
	}

	e.Register(document.PDF, PDFExtractor{})
	e.Register(document.DOCX, DOCXExtractor{})
	e.Register(document.PlainText, PlainTextExtractor{})

	return e
}

// Register binds impl to format, replacing any previous binding.
func (e *Extractor) Register(format document.Format, impl FormatExtractor) {
	e.formats[format] = impl
}

// WithLogger returns a copy of e that logs to log. Registered extractors are shared.
func (e *Extractor) WithLogger(log *zap.Logger) *Extractor {
	c := *e
	c.logger = logger.WithFields(log)
	return &c
}

// Supports reports whether format has a registered extractor.
func (e *Extractor) Supports(format document.Format) bool {
	_, ok := e.formats[format]
	return ok
}

// Extract converts a single document. It never panics and never returns an
// error; failures are reported through ExtractedText.Err.
func (e *Extractor) Extract(ctx context.Context, doc *document.Document) ExtractedText {
	if doc == nil {
		return ExtractedText{Err: fmt.Errorf("%w: document is nil", ErrExtractionFailure)}
	}

	start := time.Now()
	out := ExtractedText{DocumentName: doc.Name, Format: doc.Format}
	log := logger.WithFields(e.logger, logger.DocumentFields(doc.Name, doc.Format.String())...)

	impl, ok := e.formats[doc.Format]
	if !ok {
		out.Err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Format.String())
		out.Duration = time.Since(start)
		log.Warn("document skipped", zap.Error(out.Err))
		return out
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	res, err := safeExtract(ctx, impl, doc.Data)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("%w: %s: %w", ErrExtractionFailure, doc.Format, err)
		log.Warn("text extraction failed, document will score 0",
			zap.Error(out.Err),
			zap.Duration("elapsed", out.Duration),
		)
		return out
	}

	out.Text = res.Text
	out.Pages = res.Pages
	out.Succeeded = true

	log.Debug("text extracted",
		zap.Int("chars", len([]rune(res.Text))),
		zap.Int("pages", res.Pages),
		zap.Duration("elapsed", out.Duration),
	)

	return out
}

func safeExtract(ctx context.Context, impl FormatExtractor, data []byte) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return impl.Extract(ctx, data)
}

// Failed counts the documents whose extraction did not succeed.
func Failed(texts []ExtractedText) int {
	failed := 0
	for _, t := range texts {
		if !t.Succeeded {
			failed++
		}
	}
	return failed
}
