package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor joins the plain text of every page in page order, one newline
// between pages. Pages without a text layer contribute an empty string.
type PDFExtractor struct{}

// pageSource is the subset of a parsed PDF needed to collect page text.
type pageSource interface {
	NumPage() int
	PageText(num int) (string, error)
}

type pdfPages struct {
	reader *pdf.Reader
}

func (PDFExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	return joinPages(ctx, pdfPages{reader: reader})
}

func joinPages(ctx context.Context, src pageSource) (Result, error) {
	total := src.NumPage()
	pages := make([]string, 0, total)

	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		text, err := src.PageText(num)
		if err != nil {
			// Image-only or undecodable pages are not a document failure.
			text = ""
		}
		pages = append(pages, text)
	}

	return Result{Text: strings.Join(pages, "\n"), Pages: total}, nil
}

func (p pdfPages) NumPage() int {
	return p.reader.NumPage()
}

func (p pdfPages) PageText(num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := p.reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}

	return page.GetPlainText(fonts)
}
