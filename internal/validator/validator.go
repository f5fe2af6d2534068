// Package validator provides a custom Validator type for accumulating
// field-level validation errors, and a Schema type that drives it from a
// declarative description of a JSON payload.
package validator

// Kind classifies a single field violation.
type Kind string

const (
	// MissingField means a required field was absent or null.
	MissingField Kind = "missing_field"
	// InvalidField means a field was present but had the wrong type or
	// failed a constraint.
	InvalidField Kind = "invalid_field"
)

// FieldError describes why one field was rejected.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Validator holds a map of field names to their validation errors.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]FieldError
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]FieldError)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given kind and message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key string, kind Kind, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = FieldError{Kind: kind, Message: message}
	}
}

// Check adds an InvalidField error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(pages > 0, "pages", "must be greater than zero")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, InvalidField, message)
	}
}

// Require adds a MissingField error for key when present is false.
func (v *Validator) Require(present bool, key string) {
	if !present {
		v.AddError(key, MissingField, "must be provided")
	}
}
