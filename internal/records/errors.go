package records

import (
	"errors"
	"fmt"
)

// EnvelopeIndex marks a SchemaError raised by the payload envelope rather
// than a specific row.
const EnvelopeIndex = -1

// SchemaError reports a payload that does not match the record schema.
type SchemaError struct {
	// Category is the payload being decoded.
	Category Category

	// Index is the offending row, or EnvelopeIndex for the envelope itself.
	Index int

	// Field is the dotted path of the offending field, if known.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	loc := "payload"
	if e.Index >= 0 {
		loc = fmt.Sprintf("records[%d]", e.Index)
	}
	if e.Field != "" {
		loc += "." + e.Field
	}
	return fmt.Sprintf("schema: %s: %s: %s", e.Category, loc, e.Message)
}

// IsSchemaError returns true if err is or wraps a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
