// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docdrop/backend/internal/export"
	"github.com/docdrop/backend/internal/naming"
	"github.com/docdrop/backend/internal/preview"
	"github.com/docdrop/backend/internal/storage"
	"github.com/docdrop/backend/internal/workspace"
	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ShowErrorDetails controls whether unexpected errors expose their cause.
var ShowErrorDetails = true

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewParseError creates a 400 error for unreadable input files
func NewParseError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "PARSE_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewInvalidExportError creates a 409 error for a refused export
func NewInvalidExportError(message string, details string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "INVALID_EXPORT",
		Message: message,
		Details: details,
	}
}

// NewLimitExceededError creates a 413 error for an oversized upload batch
func NewLimitExceededError(message string) *APIError {
	return &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "LIMIT_EXCEEDED",
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// FromDomainError maps errors returned by the workspace, export and preview
// packages onto API errors.
func FromDomainError(err error) *APIError {
	var apiErr *APIError
	var exportErr *naming.ExportError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, workspace.ErrNotFound),
		errors.Is(err, workspace.ErrFileNotFound),
		errors.Is(err, export.ErrJobNotFound),
		errors.Is(err, storage.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, workspace.ErrLimitExceeded):
		return NewLimitExceededError(err.Error())
	case errors.As(err, &exportErr):
		details := ""
		if exportErr.Name != "" {
			details = fmt.Sprintf("%s: %s", exportErr.Name, exportErr.Reason)
		}
		return NewInvalidExportError(exportErr.Error(), details)
	case errors.Is(err, naming.ErrInvalidExport):
		return NewInvalidExportError(err.Error(), "")
	case errors.Is(err, naming.ErrValidation), errors.Is(err, workspace.ErrNotRenamable):
		return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: err.Error()}
	case errors.Is(err, preview.ErrParse):
		return NewParseError("failed to parse input", err)
	case errors.Is(err, export.ErrNotReady):
		return NewConflictError(err.Error())
	default:
		return NewInternalError("operation failed", err)
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
		if ShowErrorDetails {
			apiErr.Details = err.Error()
		}
	}

	if err := c.JSON(apiErr.Status, apiErr); err != nil {
		c.Logger().Error(err)
	}
}
