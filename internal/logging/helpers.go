package logging

import (
	"maps"

	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// WithFields attaches fields when logger implements interfaces.FieldsLogger,
// otherwise the logger is returned as is.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

// Ensure returns logger, or a no-op logger when it is nil.
func Ensure(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
