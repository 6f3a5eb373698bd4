// Package logger provides logging functionality for the application.
package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Default configuration values.
const (
	// DefaultLevel is the default logging level.
	DefaultLevel = InfoLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level string `yaml:"level" json:"level"`
	// Development enables development mode.
	Development bool `yaml:"development" json:"development"`
	// Encoding sets the logger's encoding (json, console).
	Encoding string `yaml:"encoding" json:"encoding"`
}
