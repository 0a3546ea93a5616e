// Package textsource resolves a piece of text given inline or as a file.
package textsource

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/extract"
)

// Source describes where a text comes from.
type Source struct {
	// Name is used in error messages to give more context about the text.
	Name string
	// Value is inline text provided via configuration or flags.
	Value string
	// File points to a file containing the text. When set it takes
	// precedence over Value.
	File string
	// Extractor reads File when it is not plain text. Without it every
	// file is read as plain text.
	Extractor *extract.Extractor
}

// Load returns the resolved text. When File is set it takes precedence over
// Value. The returned text is always trimmed. An error is returned when neither
// File nor Value contain usable text.
func Load(ctx context.Context, src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "text"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		value, err := readFile(ctx, file, src.Extractor)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = value
		src.File = file
	}

	text := strings.TrimSpace(src.Value)
	if text == "" {
		if src.File != "" {
			return "", fmt.Errorf("%s file %q is empty", name, src.File)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return text, nil
}

func readFile(ctx context.Context, path string, extractor *extract.Extractor) (string, error) {
	doc, err := document.ReadFile(path, "")
	if err != nil {
		return "", err
	}

	if extractor == nil || !extractor.Supports(doc.Format) {
		// Unknown extensions (.rst, .adoc, no extension) are still read as text.
		doc.Format = document.PlainText
		if extractor == nil {
			return string(doc.Data), nil
		}
	}

	out := extractor.Extract(ctx, doc)
	if out.Err != nil {
		return "", out.Err
	}

	return out.Text, nil
}
