package gen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("sqlbgen: invalid configuration")
	// ErrGenerationFailed is matched by every *GenerationError.
	ErrGenerationFailed = errors.New("sqlbgen: generation failed")
)

// ConfigError reports an option that was rejected by NewConfig or Apply.
type ConfigError struct {
	Option  string // option name, e.g. "Suffix"
	Value   any    // rejected value, nil when there is none
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("sqlbgen: option %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("sqlbgen: option %s = %#v: %s", e.Option, e.Value, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// NewConfigError returns a ConfigError for option.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError reports a package whose file could not be rendered or
// written. File is empty when rendering failed before a path was known.
type GenerationError struct {
	Package string
	File    string
	Cause   error
}

func (e *GenerationError) Error() string {
	msg := "sqlbgen: generation failed"
	if e.Package != "" {
		msg = "sqlbgen: " + e.Package
	}
	if e.File != "" {
		msg += ": " + e.File
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }
