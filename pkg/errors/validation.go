package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// ValidateEquatorialCount rejects non-positive equatorial point counts.
// The covering is undefined for them and must not degrade into an empty or
// pole-only result silently.
func ValidateEquatorialCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidParameter, "equatorial count must be a positive integer, got %d", n)
	}
	return nil
}

// ParseEquatorialCount parses s as a positive base-10 integer.
// Fractional, signed-negative, empty or otherwise malformed values are
// reported as INVALID_PARAMETER rather than being truncated.
func ParseEquatorialCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidParameter, "equatorial count is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidParameter, err, "equatorial count must be an integer, got %q", s)
	}
	if err := ValidateEquatorialCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidatePath validates a user supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
