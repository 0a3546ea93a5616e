package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldDocument is the structured log field key for a document name.
	FieldDocument = "document"
	// FieldFormat is the structured log field key for a document format.
	FieldFormat = "format"
	// FieldRequestID is the structured log field key correlating one ranking request.
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// DocumentFields returns the fields identifying a document in log entries.
func DocumentFields(name, format string) []zap.Field {
	return StringFields(
		StringField{Key: FieldDocument, Value: name},
		StringField{Key: FieldFormat, Value: format},
	)
}

// WithRequest attaches the request id to the logger.
func WithRequest(logger *zap.Logger, requestID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldRequestID, Value: requestID})...)
}
