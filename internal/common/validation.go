package common

import (
	"fmt"
	"slices"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateLimit checks a history page size. Zero selects the default.
func ValidateLimit(limit, maxLimit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}
	if maxLimit > 0 && limit > maxLimit {
		return fmt.Errorf("limit %d exceeds the maximum of %d", limit, maxLimit)
	}
	return nil
}
