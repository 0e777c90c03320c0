package utils

import (
	"fmt"
	"net/http"
)

// ServiceError represents a service-level error with context
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Details    string `json:"details,omitempty"`
	Cause      error  `json:"-"` // Original error, not exposed in JSON
}

func (e ServiceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(code, message string) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewServiceErrorWithCause creates a service error that wraps another error
func NewServiceErrorWithCause(code, message string, cause error) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsServiceError checks if an error is a service error
func IsServiceError(err error) bool {
	_, ok := err.(ServiceError)
	return ok
}

// GetServiceError extracts a ServiceError from an error
func GetServiceError(err error) (ServiceError, bool) {
	if serviceErr, ok := err.(ServiceError); ok {
		return serviceErr, true
	}
	return ServiceError{}, false
}

func NewNotFoundError(resource string) error {
	return ServiceError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func NewBadRequestError(message string) error {
	return ServiceError{
		Code:       "BAD_REQUEST",
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewConflictError(message string) error {
	return ServiceError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string) error {
	return ServiceError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// Engine-specific errors

func NewMalformedEventError(details string) error {
	return ServiceError{
		Code:       "MALFORMED_EVENT",
		Message:    "Tracking event is missing required fields",
		Details:    details,
		StatusCode: http.StatusBadRequest,
	}
}

func NewTemplateResolutionError(templateID string) error {
	return ServiceError{
		Code:       "TEMPLATE_RESOLUTION_FAILED",
		Message:    fmt.Sprintf("Template %s is missing or disabled", templateID),
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewChannelDeliveryError(channel, details string) error {
	return ServiceError{
		Code:       "CHANNEL_DELIVERY_FAILED",
		Message:    fmt.Sprintf("Delivery over %s failed", channel),
		Details:    details,
		StatusCode: http.StatusBadGateway,
	}
}

func NewInvalidTransitionError(from, to string) error {
	return ServiceError{
		Code:       "INVALID_STATUS_TRANSITION",
		Message:    fmt.Sprintf("Cannot transition notification from %s to %s", from, to),
		StatusCode: http.StatusConflict,
	}
}

// Error handling helpers
func WrapError(err error, code, message string) error {
	return ServiceError{
		Code:       code,
		Message:    message,
		Cause:      err,
		StatusCode: http.StatusInternalServerError,
	}
}
