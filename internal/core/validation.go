package core

// validation.go provides the stateless rule checks applied during mapping and
// assembly.
//
// Validation happens at two levels:
//  1. Field rules: PPSN format, numeric parse (see convert.go)
//  2. Submission rules: presence, non-emptiness and cross-record integrity
//
// Field rules return plain booleans or errors so importers can decide whether
// a failure is a warning or an error. Submission rules collect every problem
// into ValidationErrors so a caller sees all of them at once.

import (
	"fmt"
	"regexp"
	"strings"
)

// ppsnRegex matches an Irish PPS number: seven digits and one or two
// uppercase letters.
var ppsnRegex = regexp.MustCompile(`^[0-9]{7}[A-Z]{1,2}$`)

// ValidatePPSN reports whether s is a well-formed PPS number.
// The check is exact: no trimming or case folding is applied.
func ValidatePPSN(s string) bool {
	return ppsnRegex.MatchString(s)
}

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is every problem found while validating one value.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// add appends a problem. Value is optional.
func (v *ValidationErrors) add(field, value, message string) {
	*v = append(*v, ValidationError{Field: field, Value: value, Message: message})
}

// err returns v as an error, or nil when no problems were recorded.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
