package tfidf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMinLength mirrors the classic TF-IDF token rule of two or more word characters.
const DefaultMinLength = 2

// Tokenizer splits text into terms. The policy is: NFKC normalization,
// lowercasing, splitting on every rune that is neither a letter nor a digit,
// dropping tokens shorter than MinLength runes and, when StopWords is set,
// dropping listed words.
type Tokenizer struct {
	MinLength int
	StopWords map[string]struct{}
}

// NewTokenizer returns the default tokenizer, optionally with English stop words.
func NewTokenizer(minLength int, stopWords bool) Tokenizer {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	t := Tokenizer{MinLength: minLength}
	if stopWords {
		t.StopWords = EnglishStopWords()
	}

	return t
}

// Tokenize returns the terms of text in order of appearance, duplicates kept.
func (t Tokenizer) Tokenize(text string) []string {
	minLength := t.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	normalized := strings.ToLower(norm.NFKC.String(text))
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minLength {
			continue
		}
		if _, stop := t.StopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}

	return tokens
}

var englishStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an",
	"and", "any", "are", "as", "at", "be", "because", "been", "before", "being",
	"below", "between", "both", "but", "by", "can", "could", "did", "do", "does",
	"doing", "down", "during", "each", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "him", "his", "how", "if",
	"in", "into", "is", "it", "its", "itself", "just", "me", "more", "most",
	"my", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
	"or", "other", "our", "ours", "out", "over", "own", "same", "she", "should",
	"so", "some", "such", "than", "that", "the", "their", "them", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while", "who",
	"whom", "why", "will", "with", "would", "you", "your", "yours",
}

// EnglishStopWords returns a fresh copy of the built-in stop word set.
func EnglishStopWords() map[string]struct{} {
	set := make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		set[w] = struct{}{}
	}
	return set
}
