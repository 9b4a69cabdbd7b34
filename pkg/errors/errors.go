package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable, client-visible error code
type ErrorCode string

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Status is the upstream HTTP status for HTTP_ERROR codes.
	Status int   `json:"status,omitempty"`
	Err    error `json:"-"`
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

// StatusCode maps the error to the status returned by our own API.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrHTTP:
		return http.StatusBadGateway
	case ErrUnknown, ErrInternal:
		return http.StatusInternalServerError
	}
	if IsValidationCode(e.Code) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Registration validation codes, checked in this order.
const (
	ErrPatientNameRequired   ErrorCode = "PATIENT_NAME_REQUIRED"
	ErrPatientDOBRequired    ErrorCode = "PATIENT_DOB_REQUIRED"
	ErrPatientPhoneRequired  ErrorCode = "PATIENT_PHONE_REQUIRED"
	ErrDepartmentRequired    ErrorCode = "DEPARTMENT_REQUIRED"
	ErrPreferredDateRequired ErrorCode = "PREFERRED_DATE_REQUIRED"
	ErrPreferredTimeRequired ErrorCode = "PREFERRED_TIME_REQUIRED"
	ErrOrdersRequired        ErrorCode = "ORDERS_REQUIRED"

	ErrInvalidDOB           ErrorCode = "INVALID_DOB"
	ErrInvalidPreferredDate ErrorCode = "INVALID_PREFERRED_DATE"
	ErrInvalidPreferredTime ErrorCode = "INVALID_PREFERRED_TIME"
	ErrInvalidGender        ErrorCode = "INVALID_GENDER"
	ErrInvalidOrder         ErrorCode = "INVALID_ORDER"
)

// Common error codes
const (
	ErrHTTP         ErrorCode = "HTTP_ERROR"
	ErrUnknown      ErrorCode = "UNKNOWN_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrBadRequest   ErrorCode = "BAD_REQUEST"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

var validationCodes = map[ErrorCode]struct{}{
	ErrPatientNameRequired:   {},
	ErrPatientDOBRequired:    {},
	ErrPatientPhoneRequired:  {},
	ErrDepartmentRequired:    {},
	ErrPreferredDateRequired: {},
	ErrPreferredTimeRequired: {},
	ErrOrdersRequired:        {},
	ErrInvalidDOB:            {},
	ErrInvalidPreferredDate:  {},
	ErrInvalidPreferredTime:  {},
	ErrInvalidGender:         {},
	ErrInvalidOrder:          {},
}

// IsValidationCode reports whether code belongs to the registration validation set.
func IsValidationCode(code ErrorCode) bool {
	_, ok := validationCodes[code]
	return ok
}

// Validation builds a validation error whose message is the code itself,
// so callers that only surface err.Error() still show the code.
func Validation(code ErrorCode, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: string(code),
		Err:     err,
	}
}

// HTTPStatus builds the error returned when an upstream answered with a non-2xx status.
func HTTPStatus(status int, body string) *AppError {
	var err error
	if body != "" {
		err = stderrors.New(body)
	}
	return &AppError{
		Code:    ErrHTTP,
		Message: fmt.Sprintf("HTTP_%d", status),
		Status:  status,
		Err:     err,
	}
}

func Unknown(err error) *AppError {
	return &AppError{
		Code:    ErrUnknown,
		Message: string(ErrUnknown),
		Err:     err,
	}
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Code returns the AppError code in err's chain, or ErrUnknown.
func Code(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrUnknown
}

// IsValidation reports whether err carries a registration validation code.
func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && IsValidationCode(appErr.Code)
}
