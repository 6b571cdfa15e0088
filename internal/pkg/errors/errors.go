package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeConnectivity  = "CONNECTIVITY_ERROR"
	CodeFetch         = "FETCH_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeValidation    = "VALIDATION_ERROR"
	CodeSerialization = "SERIALIZATION_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithError wraps an underlying error
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Connectivity creates a connectivity error. The tracking server was
// unreachable; fatal when raised during the startup health check.
func Connectivity(message string) *AppError {
	return New(CodeConnectivity, message)
}

// Fetch creates a resource-fetch error. Non-fatal: the caller treats the
// resource as empty and continues with the next sibling.
func Fetch(resource string) *AppError {
	return New(CodeFetch, fmt.Sprintf("failed to fetch %s", resource))
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

// Serialization creates a serialization error. Non-fatal: the in-memory
// dump is unaffected by a failed write.
func Serialization(message string) *AppError {
	return New(CodeSerialization, message)
}

// Internal creates an internal error
func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error if present
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsConnectivity checks if the error is a connectivity error
func IsConnectivity(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeConnectivity
	}
	return false
}

// IsFetch checks if the error is a resource-fetch error
func IsFetch(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeFetch
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeValidation
	}
	return false
}

// IsSerialization checks if the error is a serialization error
func IsSerialization(err error) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == CodeSerialization
	}
	return false
}
