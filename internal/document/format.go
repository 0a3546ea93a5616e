package document

import (
	"path/filepath"
	"strings"
)

// Format is the declared type of a document. Only PDF, DOCX and PlainText have
// extractors; any other value is carried through and rejected per document.
type Format string

const (
	PDF       Format = "PDF"
	DOCX      Format = "DOCX"
	PlainText Format = "PLAIN_TEXT"
)

const (
	mimePDF       = "application/pdf"
	mimeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePlainText = "text/plain"
)

// Formats lists the supported formats in a stable order.
var Formats = []Format{PDF, DOCX, PlainText}

var extensions = map[string]Format{
	"pdf":  PDF,
	"docx": DOCX,
	"txt":  PlainText,
	"text": PlainText,
	"md":   PlainText,
}

func (f Format) String() string {
	return string(f)
}

func (f Format) IsSupported() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseFormat maps a user supplied tag, extension or MIME type to a Format.
// Unknown tags are returned upper-cased so the caller can still report them.
func ParseFormat(tag string) Format {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}

	lower := strings.ToLower(tag)
	if mediaType, _, found := strings.Cut(lower, ";"); found {
		lower = strings.TrimSpace(mediaType)
	}

	switch lower {
	case mimePDF:
		return PDF
	case mimeDOCX:
		return DOCX
	case mimePlainText:
		return PlainText
	case "plain_text", "plain-text", "plaintext":
		return PlainText
	}

	if f, ok := extensions[normalizeExt(lower)]; ok {
		return f
	}

	return Format(strings.ToUpper(tag))
}

// FromFilename detects the format from the file extension.
func FromFilename(name string) Format {
	ext := normalizeExt(filepath.Ext(name))
	if f, ok := extensions[ext]; ok {
		return f
	}
	if ext == "" {
		return "UNKNOWN"
	}
	return Format(strings.ToUpper(ext))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
