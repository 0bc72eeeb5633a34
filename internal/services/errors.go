package services

import (
	"errors"

	apperrors "github.com/studyloop/quiz-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrContentRequired  = errors.New("document content is required")
	ErrValidationFailed = errors.New("validation failed")
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}
