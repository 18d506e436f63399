package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeStartDateInPast     ErrorCode = "START_DATE_IN_PAST"
	ErrCodeEndBeforeStart      ErrorCode = "END_BEFORE_START"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeOverlappingRequest  ErrorCode = "OVERLAPPING_PENDING_REQUEST"
	ErrCodeNoSupervisor        ErrorCode = "NO_SUPERVISOR_ASSIGNED"

	ErrCodeNotAuthorized    ErrorCode = "NOT_AUTHORIZED"
	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeAlreadyProcessed ErrorCode = "ALREADY_PROCESSED"
)

type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// Is lets sentinel AppErrors match wrapped copies of themselves by code.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Sentinel errors shared across packages. Callers match them with errors.Is;
// the HTTP layer maps them straight to responses.
var (
	ErrStartDateInPast     = NewValidationError("start date cannot be in the past", ErrCodeStartDateInPast)
	ErrEndBeforeStart      = NewValidationError("end date must not be before start date", ErrCodeEndBeforeStart)
	ErrInsufficientBalance = NewValidationError("insufficient vacation days available", ErrCodeInsufficientBalance)
	ErrOverlappingRequest  = NewValidationError("a pending request already covers part of these dates", ErrCodeOverlappingRequest)
	ErrNoSupervisor        = NewValidationError("no supervisor assigned, contact HR", ErrCodeNoSupervisor)

	// ErrNotAuthorized covers both "not yours" and "does not exist" at the
	// boundary so callers cannot probe for other employees' requests.
	ErrNotAuthorized = NewForbiddenError("not authorized to access this request", ErrCodeNotAuthorized)

	ErrEmployeeNotFound = NewNotFoundError("employee not found", ErrCodeEmployeeNotFound)

	// ErrRequestNotActionable is returned for a decide call on a request that
	// is absent or no longer pending. The two cases are logged separately
	// but reported identically.
	ErrRequestNotActionable = NewConflictError("request not found or already processed", ErrCodeAlreadyProcessed)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
