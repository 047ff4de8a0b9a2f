package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// --- Error Definitions ---
var (
	ErrValidationFailed        = errors.New("validation failed")
	ErrCategoryNotFound        = errors.New("category not found")
	ErrExerciseNotFound        = errors.New("exercise not found")
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutExerciseNotFound = errors.New("exercise is not part of this workout")
	ErrVideoNotFound           = errors.New("video not found")
	ErrProfileNotFound         = errors.New("profile not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// ParseOptionalCount reads an optional non-negative whole number from a form field.
// Blank input means absent.
func ParseOptionalCount(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, validationError("%s must be a non-negative whole number", field)
	}
	return &n, nil
}
