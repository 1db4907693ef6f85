// Package apperr defines the coded errors the API reports. Every failure a
// handler surfaces carries one of these stable codes; anything else is
// wrapped as INTERNAL before it reaches the wire.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeAuthInvalid       Code = "AUTH_INVALID"
	CodeMissingCredential Code = "MISSING_CREDENTIAL"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeBookingForbidden  Code = "BOOKING_FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeBookingNotAllowed Code = "BOOKING_NOT_ALLOWED"
	CodeBookingExists     Code = "BOOKING_EXISTS"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
)

type Error struct {
	Code    Code     `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Details: []string{}}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Validation builds a VALIDATION_ERROR naming the offending field.
func Validation(field, message string) *Error {
	e := New(CodeValidation, message)
	e.Details = append(e.Details, field)
	return e
}

func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

// HTTPStatus maps a code to its wire status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeBookingNotAllowed:
		return http.StatusBadRequest
	case CodeAuthInvalid, CodeMissingCredential, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeBookingForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBookingExists, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// From returns err as an *Error, wrapping unknown errors as INTERNAL so
// store failures never leak driver messages to clients.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(CodeInternal, "internal error")
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
