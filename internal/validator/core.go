// Package validator provides rule-based validation for request and domain
// input. Rules are composed with Apply, which collects every failing rule
// into a ValidationErrors value suitable for a structured 400 response.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure on a named field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is a collection of validation failures.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any failure was recorded for the given field.
func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the distinct field names with failures, in order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Details maps field names to their failure messages.
func (ve ValidationErrors) Details() map[string][]string {
	details := make(map[string][]string, len(ve))
	for _, err := range ve {
		details[err.Field] = append(details[err.Field], err.Message)
	}
	return details
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes the rules in order and returns the accumulated failures,
// or nil when everything passes.
func Apply(rules ...Rule) error {
	var failures ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			failures = append(failures, rule.Error)
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}

// Extract returns the ValidationErrors wrapped in err, if any.
func Extract(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
