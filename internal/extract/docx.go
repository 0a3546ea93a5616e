package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBodyPart = "word/document.xml"
	// wordprocessingML main namespace; text in drawings uses other namespaces.
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	// markup compatibility namespace; mc:Fallback repeats the text of mc:Choice.
	mcNamespace = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	// maxBodySize guards against zip bombs.
	maxBodySize = 64 << 20
)

// DOCXExtractor joins the text of every paragraph in document order, one
// newline between paragraphs. Paragraphs inside tables are included.
type DOCXExtractor struct{}

func (DOCXExtractor) Extract(ctx context.Context, data []byte) (Result, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open docx archive: %w", err)
	}

	var body *zip.File
	for _, file := range archive.File {
		if file.Name == docxBodyPart {
			body = file
			break
		}
	}
	if body == nil {
		return Result{}, fmt.Errorf("%s not found", docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(ctx, io.LimitReader(rc, maxBodySize))
	if err != nil {
		return Result{}, err
	}

	return Result{Text: strings.Join(paragraphs, "\n"), Pages: 1}, nil
}

func readParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
		fallback   int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", docxBodyPart, err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			if fallback > 0 {
				fallback++
				continue
			}
			if el.Name.Space == mcNamespace && el.Name.Local == "Fallback" {
				fallback = 1
				continue
			}
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if fallback > 0 {
				fallback--
				continue
			}
			if el.Name.Space != wordNamespace {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			}
		case xml.CharData:
			if inText && fallback == 0 {
				current.Write(el)
			}
		}
	}

	return paragraphs, nil
}
