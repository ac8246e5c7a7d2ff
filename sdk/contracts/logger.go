package contracts

import "time"

// LogLevel represents the severity level for logging.
type LogLevel int

// The zero LogLevel is "unset"; option defaults substitute InfoLevel.
const (
	// DebugLevel is for messages useful when troubleshooting.
	DebugLevel LogLevel = iota + 1
	// InfoLevel highlights normal progress of the library.
	InfoLevel
	// WarnLevel flags situations that degrade functionality but are not
	// fatal, such as a dropped packet or a skipped device.
	WarnLevel
	// ErrorLevel flags failures that need attention.
	ErrorLevel
)

// Field is a fluent builder for one typed log field.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint8(key string, val uint8) Field
}

// Logger provides leveled, structured logging. The library never logs on
// the hot receive path above the level set here.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
}
