package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("unknown field")
)

// FieldError reports a value that could not be stored in a draft field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s: %v", e.Value, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func unknownField(field string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// IsFieldError reports whether err was caused by a bad field name or value.
func IsFieldError(err error) bool {
	var fieldErr *FieldError
	return errors.As(err, &fieldErr) || errors.Is(err, ErrUnknownField)
}
