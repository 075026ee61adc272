package base

import (
	"fmt"
	"strings"

	"paygate/internal/provider"
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// RequireField fails with a missing-field configuration error when value is blank.
func RequireField(field, value string) error {
	if IsBlank(value) {
		return provider.ConfigError(provider.ErrMissingField, field, "Parameter '%s' is required", field)
	}
	return nil
}

// RequireList fails when the list is empty or holds a blank entry.
func RequireList(field string, values []string) error {
	if len(values) == 0 {
		return provider.ConfigError(provider.ErrMissingField, field, "Parameter '%s' is required", field)
	}
	for i, v := range values {
		if IsBlank(v) {
			return provider.ConfigError(provider.ErrMissingField, field, "Parameter '%s' has an empty value at position %d", field, i)
		}
	}
	return nil
}

// OptionalField accepts an unset value but rejects one that is only whitespace.
func OptionalField(field, value string) error {
	if value != "" && IsBlank(value) {
		return provider.ConfigError(provider.ErrMissingField, field, "Parameter '%s' is blank", field)
	}
	return nil
}

// RequireOneOf accepts an unset value or one of the allowed values.
func RequireOneOf(field, value string, allowed []string) error {
	if value == "" || Contains(allowed, value) {
		return nil
	}
	return provider.ConfigError(provider.ErrInvalidEncoding, field,
		"Unrecognized %s '%s' valid values: %s", field, value, fmt.Sprintf("[%s]", strings.Join(allowed, ", ")))
}

// Contains checks if a slice contains a string
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
