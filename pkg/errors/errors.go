package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnprocessable = "UNPROCESSABLE_ENTITY"
	CodeOverlap       = "RESERVATION_OVERLAP"
	CodeDuplicate     = "DUPLICATE"
	CodeInternal      = "INTERNAL_ERROR"
	CodeTimeout       = "TIMEOUT"
)

// AppError is the single error type crossing service boundaries. Every
// business failure carries a machine-readable code, a human message and
// the HTTP status it maps to.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Envelope is the wire shape of every error response.
type Envelope struct {
	Error ErrorBody `json:"error"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(Envelope{Error: ErrorBody{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}})
	return data
}

// Validation reports missing or malformed required input.
func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Unprocessable reports input that parsed fine but is semantically
// invalid, e.g. an end instant not after the start.
func Unprocessable(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeUnprocessable,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

// Overlap reports a reservation whose time range collides with an
// existing reservation on the same plan.
func Overlap(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeOverlap,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Details:    details,
	}
}

// Duplicate reports a uniqueness constraint violation surfaced by the
// store, translated into a first-class outcome.
func Duplicate(message string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Timeout reports a transient failure the caller may retry. It is never
// used for deterministic business-rule rejections.
func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
