package order

import "fmt"

// ParseError is returned when a field value cannot be interpreted
// under any supported encoding.
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %v: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s %v", e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a required field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// ValidationError is returned when an addition to a Versioned order is
// inconsistent with the aggregate or with itself.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Reason
}

// AssertionError reports a broken precondition on a batch of
// snapshots, such as mixed order ids.
type AssertionError struct {
	Reason string
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + e.Reason
}
