package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds wall, cell, variant and processor identifiers.
const maxIDLength = 128

// ValidateID validates an identifier used as a catalog or project key.
// The rules are conservative because ids end up in cache keys and file names:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "%s id cannot contain path separators: %q", kind, id)
	}

	return nil
}

// ValidatePositive checks that v is strictly greater than zero.
func ValidatePositive(code Code, field string, v float64) error {
	if v <= 0 {
		return New(code, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateAtLeast checks that an integer field is at least min.
func ValidateAtLeast(code Code, field string, v, min int) error {
	if v < min {
		return New(code, "%s must be >= %d, got %d", field, min, v)
	}
	return nil
}

// ValidatePercent checks that v is a usable percentage.
// Values above 100 are allowed so a hard limit can sit above nominal capacity.
func ValidatePercent(code Code, field string, v float64) error {
	if v <= 0 || v > 200 {
		return New(code, "%s must be in (0, 200], got %v", field, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of the allowed values.
func ValidateOneOf(code Code, field, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return New(code, "invalid %s: %q (must be one of: %s)", field, v, strings.Join(allowed, ", "))
}
