package errors

import (
	"errors"
	"fmt"
)

// The three collaborator failure classes. Each carries a human-readable message
// and whether retrying the same operation with the same inputs is offered.
// Generation and evaluation failures are always retryable; extraction failures
// are retryable only when the underlying cause is transient (e.g. an unreachable
// URL as opposed to an unsupported file type).

type ExtractionError struct {
	Message   string
	Retryable bool
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error     { return e.Err }
func (e *ExtractionError) IsRetryable() bool { return e.Retryable }

type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quiz generation failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("quiz generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error     { return e.Err }
func (e *GenerationError) IsRetryable() bool { return true }

type EvaluationError struct {
	Message string
	Err     error
}

func (e *EvaluationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quiz evaluation failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("quiz evaluation failed: %s", e.Message)
}

func (e *EvaluationError) Unwrap() error     { return e.Err }
func (e *EvaluationError) IsRetryable() bool { return true }

func NewExtractionError(message string, retryable bool, err error) *ExtractionError {
	return &ExtractionError{Message: message, Retryable: retryable, Err: err}
}

func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

func NewEvaluationError(message string, err error) *EvaluationError {
	return &EvaluationError{Message: message, Err: err}
}

type retryable interface {
	IsRetryable() bool
}

// IsRetryable reports whether err (or any error it wraps) offers a retry of the
// same operation.
func IsRetryable(err error) bool {
	var r retryable
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return false
}

// IsGeneration reports whether err is a quiz generation failure.
func IsGeneration(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// IsEvaluation reports whether err is a quiz evaluation failure.
func IsEvaluation(err error) bool {
	var ee *EvaluationError
	return errors.As(err, &ee)
}

// IsExtraction reports whether err is a content extraction failure.
func IsExtraction(err error) bool {
	var xe *ExtractionError
	return errors.As(err, &xe)
}
