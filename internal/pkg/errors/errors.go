package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeNotTrained         = "NOT_TRAINED"
	ErrCodeNoNumericFeatures  = "NO_NUMERIC_FEATURES"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeDetectorFailure    = "DETECTOR_FAILURE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// FromError converts any error to an AppError, wrapping unknown
// errors as internal ones.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}

// NotTrained indicates detection was requested before the sector's
// detectors finished training.
func NotTrained(sector string) *AppError {
	return New(ErrCodeNotTrained,
		fmt.Sprintf("models not trained for sector %s", sector),
		http.StatusBadRequest)
}

// NotTrainedDetector indicates Predict was called on a detector
// before Train.
func NotTrainedDetector(name string) *AppError {
	return New(ErrCodeNotTrained,
		fmt.Sprintf("detector %s is not trained", name),
		http.StatusBadRequest)
}

// NoNumericFeatures indicates a telemetry batch contained no usable
// numeric columns.
func NoNumericFeatures() *AppError {
	return New(ErrCodeNoNumericFeatures,
		"no numeric features found in data",
		http.StatusBadRequest)
}

// InvalidState indicates an illegal lifecycle transition.
func InvalidState(message string) *AppError {
	return New(ErrCodeInvalidState, message, http.StatusConflict)
}

// DetectorFailure wraps a single detector's train or predict error.
// Callers isolate these so one failing detector never stops the run.
func DetectorFailure(detector string, err error) *AppError {
	return Wrap(err, ErrCodeDetectorFailure,
		fmt.Sprintf("detector %s failed", detector),
		http.StatusInternalServerError)
}
