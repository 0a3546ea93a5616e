package extract

import (
	"context"
	"errors"
	"unicode/utf8"
)

// PlainTextExtractor returns the bytes verbatim when they are valid UTF-8.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(_ context.Context, data []byte) (Result, error) {
	if !utf8.Valid(data) {
		return Result{}, errors.New("content is not valid UTF-8")
	}

	return Result{Text: string(data), Pages: 1}, nil
}
