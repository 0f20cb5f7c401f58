package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Common error types
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
)

// Forecasting error taxonomy
var (
	// ErrDataUnavailable means the historical dataset could not be loaded. Fatal at startup.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrModelUnavailable means the trained model could not be loaded. The forecaster
	// runs in fallback-only mode.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrPredictionFailure means the model raised or returned malformed output.
	ErrPredictionFailure = errors.New("prediction failure")
	// ErrInvalidInput means a scenario parameter is outside its documented range.
	ErrInvalidInput = errors.New("invalid input")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	HTTPStatus int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a not found error
func NotFound(resource string, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]string{"resource": resource, "id": id},
	}
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Message:    message,
		Code:       "BAD_REQUEST",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidInput creates a validation error listing each out-of-range field.
func InvalidInput(details map[string]string) *AppError {
	fields := make([]string, 0, len(details))
	for f := range details {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return &AppError{
		Err:        ErrInvalidInput,
		Message:    "invalid input: " + strings.Join(fields, ", "),
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// DataUnavailable wraps a dataset loading failure.
func DataUnavailable(source string, err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrDataUnavailable, err),
		Message:    fmt.Sprintf("dataset %s could not be loaded", source),
		Code:       "DATA_UNAVAILABLE",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]string{"source": source},
	}
}

// ModelUnavailable wraps a model loading failure.
func ModelUnavailable(kind string, err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrModelUnavailable, err),
		Message:    fmt.Sprintf("%s model could not be loaded", kind),
		Code:       "MODEL_UNAVAILABLE",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]string{"kind": kind},
	}
}

// PredictionFailure wraps an error raised by the model's predict call.
func PredictionFailure(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrPredictionFailure, err),
		Message:    "model prediction failed",
		Code:       "PREDICTION_FAILURE",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Internal creates an internal error
func Internal(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "INTERNAL_ERROR",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
