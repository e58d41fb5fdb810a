package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every rejected field of a request
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Field + ": " + e.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, format string, args ...interface{}) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *ValidationErrors) require(field, value string, max int) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		v.add(field, "%s is required", strings.ReplaceAll(field, "_", " "))
	case utf8.RuneCountInString(value) > max:
		v.add(field, "%s must not exceed %d characters", strings.ReplaceAll(field, "_", " "), max)
	}
}
