package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the php symbol locator
type ErrorType string

const (
	// Source errors
	ErrorTypeSourceUnreadable ErrorType = "source_unreadable"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInvariant ErrorType = "invariant"
)

// Sentinels for errors.Is checks. Typed errors below match them via Is.
var (
	ErrSourceUnreadable = errors.New("source unreadable")
	ErrInvariant        = errors.New("internal invariant violated")
)

// SourceUnreadableError is returned when a file cannot be read or parsed.
// It is the only failure the index builder is expected to produce.
type SourceUnreadableError struct {
	Type       ErrorType
	FilePath   string
	Operation  string // "read" or "parse"
	Line       int    // 1-based, 0 when unknown
	Column     int    // 1-based, 0 when unknown
	Underlying error
	Timestamp  time.Time
}

// NewSourceUnreadableError creates a new source error for path
func NewSourceUnreadableError(op, path string, err error) *SourceUnreadableError {
	return &SourceUnreadableError{
		Type:       ErrorTypeSourceUnreadable,
		FilePath:   path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPosition records where parsing first failed
func (e *SourceUnreadableError) WithPosition(line, column int) *SourceUnreadableError {
	e.Line = line
	e.Column = column
	return e
}

// Error implements the error interface
func (e *SourceUnreadableError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %s failed at %s:%d:%d: %v", e.Type, e.Operation, e.FilePath, e.Line, e.Column, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *SourceUnreadableError) Unwrap() error {
	return e.Underlying
}

// Is matches ErrSourceUnreadable
func (e *SourceUnreadableError) Is(target error) bool {
	return target == ErrSourceUnreadable
}

// InvariantError reports a broken contract between the locator and one of
// its collaborators. It is a defect, never a "symbol absent" outcome.
type InvariantError struct {
	Type       ErrorType
	Operation  string
	Identifier string
	Expected   string
	Actual     string
	Timestamp  time.Time
}

// NewInvariantError creates a new invariant violation
func NewInvariantError(op, identifier, expected, actual string) *InvariantError {
	return &InvariantError{
		Type:       ErrorTypeInvariant,
		Operation:  op,
		Identifier: identifier,
		Expected:   expected,
		Actual:     actual,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *InvariantError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("%s violated in %s for %s: expected %s, got %s", e.Type, e.Operation, e.Identifier, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s violated in %s: expected %s, got %s", e.Type, e.Operation, e.Expected, e.Actual)
}

// Is matches ErrInvariant
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// IsSourceUnreadable reports whether err is (or wraps) a source failure
func IsSourceUnreadable(err error) bool {
	return errors.Is(err, ErrSourceUnreadable)
}

// IsInvariant reports whether err is (or wraps) an invariant violation
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
