package apperrors

import (
	"errors"
	"fmt"
)

// Error codes for the stats engine.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeStoreError       = "STORE_ERROR"
	ErrCodeConfigInvalid    = "CONFIG_INVALID"
)

// EngineError represents an error raised by the stats engine.
type EngineError struct {
	Code    string
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ErrNotFound returns an error for an unknown entity id.
func ErrNotFound(entity, id string) *EngineError {
	return &EngineError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// ErrValidation returns an error for a malformed request parameter.
func ErrValidation(reason string) *EngineError {
	return &EngineError{
		Code:    ErrCodeValidationFailed,
		Message: reason,
	}
}

// ErrStore wraps a persistent-store failure.
func ErrStore(operation string, err error) *EngineError {
	return &EngineError{
		Code:    ErrCodeStoreError,
		Message: fmt.Sprintf("store error during %s", operation),
		Err:     err,
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(reason string) *EngineError {
	return &EngineError{
		Code:    ErrCodeConfigInvalid,
		Message: fmt.Sprintf("invalid configuration: %s", reason),
	}
}

// CodeOf extracts the engine error code, or "" for foreign errors.
func CodeOf(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND engine error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsValidation reports whether err is a VALIDATION_FAILED engine error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidationFailed
}
