package chassis

import (
	"errors"
	"fmt"
	"strings"
)

// Construction errors returned by New.
var (
	ErrEmptyFieldName  = errors.New("chassis: field name is empty")
	ErrMissingReducer  = errors.New("chassis: field has no reducer")
	ErrMissingAccessor = errors.New("chassis: field has no accessor")
	ErrDuplicateField  = errors.New("chassis: field declared twice")
	ErrMismatchedRef   = errors.New("chassis: accessor returns a different field")
)

// Runtime errors.
var (
	// ErrUnknownField is returned for a name that no Declare registered.
	ErrUnknownField = errors.New("chassis: unknown field")

	// ErrDecode is returned when an untyped value cannot be converted to
	// the field's value type.
	ErrDecode = errors.New("chassis: cannot decode value")

	// ErrNotValid is returned by Submit when the form is not valid.
	ErrNotValid = errors.New("chassis: form is not valid")
)

// FieldError reports that an external collaborator rejected one field, for
// example a server answering "login already taken". Chassis.ForceErrors
// turns it into a forced validation result.
type FieldError struct {
	Field  string
	Reason Invalid
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, orDefault(e.Reason).Reason())
}

// FieldErrors is a set of per-field rejections reported together.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i := range e {
		parts[i] = e[i].Error()
	}
	return strings.Join(parts, "; ")
}

// fieldErrorsOf extracts per-field rejections from err.
func fieldErrorsOf(err error) FieldErrors {
	var many FieldErrors
	if errors.As(err, &many) {
		return many
	}
	var one *FieldError
	if errors.As(err, &one) {
		return FieldErrors{*one}
	}
	return nil
}
