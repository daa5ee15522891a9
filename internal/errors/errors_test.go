package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSourceUnreadableError(t *testing.T) {
	underlying := errors.New("syntax error")
	err := NewSourceUnreadableError("parse", "/path/to/file.php", underlying).WithPosition(10, 5)

	if err.Type != ErrorTypeSourceUnreadable {
		t.Errorf("Expected Type to be ErrorTypeSourceUnreadable, got %v", err.Type)
	}

	if err.Line != 10 || err.Column != 5 {
		t.Errorf("Expected Line/Column to be 10:5, got %d:%d", err.Line, err.Column)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	if !errors.Is(err, ErrSourceUnreadable) {
		t.Errorf("Expected error to match ErrSourceUnreadable")
	}

	if errors.Is(err, ErrInvariant) {
		t.Errorf("Source errors must not match ErrInvariant")
	}

	expectedMsg := "source_unreadable parse failed at /path/to/file.php:10:5: syntax error"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestSourceUnreadableErrorWithoutPosition(t *testing.T) {
	err := NewSourceUnreadableError("read", "/missing.php", errors.New("no such file or directory"))

	expectedMsg := "source_unreadable read failed for /missing.php: no such file or directory"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestInvariantError(t *testing.T) {
	err := NewInvariantError("resolve", "class Foo", "class", "function")

	if err.Type != ErrorTypeInvariant {
		t.Errorf("Expected Type to be ErrorTypeInvariant, got %v", err.Type)
	}

	if !errors.Is(err, ErrInvariant) {
		t.Errorf("Expected error to match ErrInvariant")
	}

	expectedMsg := "invariant violated in resolve for class Foo: expected class, got function"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	noID := NewInvariantError("resolve", "", "known kind", "unknown")
	if noID.Error() != "invariant violated in resolve: expected known kind, got unknown" {
		t.Errorf("Unexpected message %q", noID.Error())
	}
}

func TestWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("resolving: %w", NewInvariantError("resolve", "x", "a", "b"))
	if !IsInvariant(wrapped) {
		t.Errorf("Expected wrapped invariant error to be detected")
	}
	if IsSourceUnreadable(wrapped) {
		t.Errorf("Invariant error must not be reported as source error")
	}

	wrapped = fmt.Errorf("building: %w", NewSourceUnreadableError("parse", "a.php", errors.New("bad")))
	if !IsSourceUnreadable(wrapped) {
		t.Errorf("Expected wrapped source error to be detected")
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("invalid value")
	err := NewConfigError("field_name", "invalid_value", underlying)

	if err.Field != "field_name" {
		t.Errorf("Expected Field to be 'field_name', got %s", err.Field)
	}

	if err.Value != "invalid_value" {
		t.Errorf("Expected Value to be 'invalid_value', got %s", err.Value)
	}

	if !errors.Is(err, underlying) {
		t.Errorf("Expected error to unwrap to underlying error")
	}

	expectedMsg := `config error for field field_name (value invalid_value): invalid value`
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestMultiError(t *testing.T) {
	err1 := errors.New("error 1")
	err2 := errors.New("error 2")
	err3 := errors.New("error 3")

	multiErr := NewMultiError([]error{err1, err2, err3})

	if len(multiErr.Errors) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(multiErr.Errors))
	}

	errMsg := multiErr.Error()
	if len(errMsg) < 10 || errMsg[:10] != "3 errors: " {
		t.Errorf("Expected message to start with '3 errors: ', got %q", errMsg)
	}

	if !errors.Is(multiErr, err2) {
		t.Errorf("Expected multi error to match a member")
	}

	singleErr := NewMultiError([]error{err1})
	if singleErr.Error() != "error 1" {
		t.Errorf("Expected 'error 1', got %q", singleErr.Error())
	}

	emptyErr := NewMultiError([]error{})
	if emptyErr.Error() != "no errors" {
		t.Errorf("Expected 'no errors', got %q", emptyErr.Error())
	}
	if emptyErr.ErrorOrNil() != nil {
		t.Errorf("Expected ErrorOrNil to return nil for empty multi error")
	}

	nilFiltered := NewMultiError([]error{err1, nil, err2, nil})
	if len(nilFiltered.Errors) != 2 {
		t.Errorf("Expected 2 errors after filtering nil, got %d", len(nilFiltered.Errors))
	}
	if nilFiltered.ErrorOrNil() == nil {
		t.Errorf("Expected ErrorOrNil to return the multi error")
	}
}

func TestTimestamp(t *testing.T) {
	err := NewSourceUnreadableError("read", "a.php", errors.New("test"))
	if err.Timestamp.IsZero() {
		t.Errorf("Expected non-zero timestamp")
	}

	now := time.Now()
	if err.Timestamp.After(now) || now.Sub(err.Timestamp) > time.Second {
		t.Errorf("Timestamp seems incorrect: %v", err.Timestamp)
	}
}

func BenchmarkInvariantError(b *testing.B) {
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		err := NewInvariantError("resolve", "class Foo", "class", "function")
		_ = err.Error()
	}
}
