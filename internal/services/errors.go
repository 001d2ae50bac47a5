package services

import (
	"errors"
	"fmt"

	apperrors "github.com/mindcanvas/mindcanvas-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Catalogue errors
	ErrTestNotFound     = errors.New("test not found")
	ErrTestInactive     = errors.New("test is not accepting submissions")
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionNotFound   = errors.New("option not found")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSubmissionFinished = errors.New("submission already finished")
	ErrSubmissionNotReady = errors.New("submission is not finished")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// StorageError wraps a persistence failure. The operation is not retried.
type StorageError struct {
	Op  string
	Err error
}

func (se *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", se.Op, se.Err)
}

func (se *StorageError) Unwrap() error {
	return se.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrOptionNotFound) ||
		errors.Is(err, ErrSubmissionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a state conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSubmissionFinished) ||
		errors.Is(err, ErrSubmissionNotReady) ||
		errors.Is(err, ErrTestInactive)
}

// IsStorage checks if error is a wrapped persistence failure
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
