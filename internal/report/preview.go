package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/utils"
)

// PreviewLength is how many runes of each document a preview shows.
const PreviewLength = 1000

// WritePreviews prints the beginning of every extracted text, or the reason it
// could not be read. docs supplies the original sizes and may be nil.
func WritePreviews(w io.Writer, texts []extract.ExtractedText, docs []*document.Document, limit int) error {
	if limit <= 0 {
		limit = PreviewLength
	}

	sizes := make(map[string]int, len(docs))
	for _, doc := range docs {
		if doc != nil {
			sizes[doc.Name] = len(doc.Data)
		}
	}

	for i, text := range texts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		header := fmt.Sprintf("== %s (%s", text.DocumentName, text.Format)
		if size, ok := sizes[text.DocumentName]; ok {
			header += ", " + humanize.Bytes(uint64(size))
		}
		if text.Pages > 0 {
			header += ", " + humanize.Comma(int64(text.Pages)) + " " + plural(text.Pages, "page")
		}
		header += ") =="

		var body string
		switch {
		case !text.Succeeded:
			body = fmt.Sprintf("could not extract text: %v", text.Err)
		case strings.TrimSpace(text.Text) == "":
			body = "(no text)"
		default:
			body = utils.Head(text.Text, limit)
			if len([]rune(text.Text)) > limit {
				body += "\n..."
			}
		}

		if _, err := fmt.Fprintf(w, "%s\n%s\n", header, body); err != nil {
			return err
		}
	}

	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
