// Package errors holds the error taxonomy shared by the staff service layers.
// Callers match on the sentinels with errors.Is and on the structured
// FieldError / ConstraintError values with errors.As.
package errors

import (
	"fmt"
)

var (
	ErrNotFound            = fmt.Errorf("not found")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrEmptyPayload        = fmt.Errorf("empty payload")
	ErrMissingField        = fmt.Errorf("missing field")
	ErrInvalidField        = fmt.Errorf("invalid field")
	ErrUnknownCompany      = fmt.Errorf("unknown company")
	ErrEmptyValue          = fmt.Errorf("empty value")
	ErrConstraintViolation = fmt.Errorf("constraint violation")
	ErrRestrictedDelete    = fmt.Errorf("restricted delete")
	ErrPrefixInUse         = fmt.Errorf("employee prefix in use")
)

// FieldError reports a validation failure for a single field. Message is the
// human-readable text returned to API clients.
type FieldError struct {
	Field   string
	Message string
	Kind    error
}

func (f *FieldError) Error() string {
	return f.Message
}

func (f *FieldError) Unwrap() error {
	return f.Kind
}

// NewFieldError builds a FieldError of the given kind.
func NewFieldError(kind error, field, message string) *FieldError {
	return &FieldError{Field: field, Message: message, Kind: kind}
}

// ConstraintError is returned by the store when a uniqueness or foreign key
// constraint rejects a write. Field is empty when the column can't be told.
type ConstraintError struct {
	Field   string
	Message string
}

func (c *ConstraintError) Error() string {
	if c.Field == "" {
		return c.Message
	}
	return fmt.Sprintf("%s: %s", c.Field, c.Message)
}

func (c *ConstraintError) Unwrap() error {
	return ErrConstraintViolation
}
