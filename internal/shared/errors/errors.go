package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("resource conflict")
	ErrInternal            = errors.New("internal error")
	ErrGatewayConfig       = errors.New("gateway configuration unavailable")
	ErrGatewayResponse     = errors.New("unrecognized gateway response")
	ErrDuplicateSubmission = errors.New("duplicate submission")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorResponse represents the JSON error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAppError creates a new application error.
func NewAppError(code string, message string, statusCode int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Common error constructors.

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// BadRequest creates a bad request error.
func BadRequest(message string) *AppError {
	return &AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrBadRequest,
	}
}

// ValidationError creates a validation error.
func ValidationError(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        ErrBadRequest,
	}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
		Err:        ErrConflict,
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// GatewayConfiguration creates an error for a region with no usable gateway.
// This is fatal to the session and must stay administrator-visible.
func GatewayConfiguration(message string) *AppError {
	if message == "" {
		message = "no payment gateway configured for your region, please contact support"
	}
	return &AppError{
		Code:       "GATEWAY_CONFIGURATION",
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        ErrGatewayConfig,
	}
}

// GatewayResponse creates an error for an unrecognized provider success payload.
func GatewayResponse(message string) *AppError {
	if message == "" {
		message = "payment provider returned an unrecognized response"
	}
	return &AppError{
		Code:       "GATEWAY_RESPONSE",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        ErrGatewayResponse,
	}
}

// DuplicateSubmission creates an error for a second submission while one is in flight.
func DuplicateSubmission() *AppError {
	return &AppError{
		Code:       "DUPLICATE_SUBMISSION",
		Message:    "a payment is already in progress for this session",
		StatusCode: http.StatusConflict,
		Err:        ErrDuplicateSubmission,
	}
}

// ToResponse converts an AppError to ErrorResponse.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    e.Code,
			Message: e.Message,
		},
	}
}

// GetStatusCode returns the appropriate HTTP status code for an error.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateSubmission):
		return http.StatusConflict
	case errors.Is(err, ErrGatewayConfig):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrGatewayResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
