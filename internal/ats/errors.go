package ats

import (
	"errors"
	"fmt"
)

// InvalidInputError reports text the engine refuses to score.
type InvalidInputError struct {
	Field    string
	Reason   string
	TooLarge bool
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err is or wraps an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsInputTooLarge reports whether err was caused by oversize input.
func IsInputTooLarge(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target) && target.TooLarge
}
