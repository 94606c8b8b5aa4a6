package pattern

import "fmt"

// ValidationError is a schema-level problem with a variant file
// (unsupported version, no variants, too many variants).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// VariantError is a problem with one variant definition (missing
// field, duplicate id, unknown event type, pattern too long, invalid
// regex).
type VariantError struct {
	Index   int    // 0-based index of the variant in the file
	ID      string // variant ID, may be empty if the id field is missing
	Field   string
	Message string
	Cause   error
}

func (e *VariantError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("variant %q: %s: %s", e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("variant[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause, enabling errors.Is/As.
func (e *VariantError) Unwrap() error {
	return e.Cause
}
