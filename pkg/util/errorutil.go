package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewGatewayUnavailable wraps a failed or timed-out backend call.
func NewGatewayUnavailable(gateway string, err error) error {
	return &DomainError{
		Code:       "GATEWAY_UNAVAILABLE",
		Message:    fmt.Sprintf("%s gateway unavailable", gateway),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewTicketCreationFailed signals that no durable ticket reference could be
// obtained. The conversation must not enter an escalated state on this error.
func NewTicketCreationFailed(err error) error {
	return &DomainError{
		Code:       "TICKET_CREATION_FAILED",
		Message:    "could not create support ticket",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewInvalidState flags an unrecognized conversation state tag.
func NewInvalidState(state string) error {
	return &DomainError{
		Code:       "INVALID_STATE",
		Message:    fmt.Sprintf("unrecognized conversation state %q", state),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
