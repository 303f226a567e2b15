package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Generation pipeline
	FieldDir       = "dir"
	FieldFile      = "file"
	FieldPackage   = "package"
	FieldSlot      = "slot"
	FieldDirective = "directive"

	// Timing
	FieldDuration = "duration"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
)

// ComponentLogger returns a named logger for a specific component. Resolve it
// at call time rather than storing the result, so components built before
// Initialize still pick up the configured logger.
//
// Example:
//
//	func (e *Engine) logger() *zap.SugaredLogger {
//	    return logger.ComponentLogger("engine")
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	dirLogger := logger.ChildLogger(baseLogger, logger.FieldDir, dir)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
