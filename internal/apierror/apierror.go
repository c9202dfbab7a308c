// Package apierror defines the typed errors services raise and handlers
// translate into HTTP responses. Raw store errors never reach clients; they
// are wrapped here or reported as a generic internal error.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Error carries an HTTP status, a stable business code and a human-readable
// message. The message is safe to show to clients.
type Error struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status, code int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, 40000, format, args...)
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, 40100, "%s", msg)
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, 40300, "%s", msg)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, 40400, format, args...)
}

// DuplicateEntry covers unique-constraint style conflicts (duplicate serial
// numbers, double-submitted requests).
func DuplicateEntry(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, 40900, format, args...)
}

// InsufficientStock is raised when a requested OUT quantity exceeds the
// warehouse-specific or total availability.
func InsufficientStock(itemCode, godown string, requested, available float64) *Error {
	return New(http.StatusUnprocessableEntity, 42200, "insufficient stock for %s in %s: requested %g, available %g",
		itemCode, godown, requested, available)
}

// OverIssuance is raised when a cumulative issuance would exceed the BOM
// snapshot's required quantity. Remaining is the quantity still allowed.
func OverIssuance(spareCode string, remaining float64) *Error {
	return New(http.StatusUnprocessableEntity, 42201, "Cannot issue more than required for %s. Remaining: %g",
		spareCode, remaining)
}

func Internal(msg string) *Error {
	return New(http.StatusInternalServerError, 50000, "%s", msg)
}

// From maps any error to an *Error, defaulting to a generic 500 so internal
// details are never surfaced. Unique-index violations that slip past service
// pre-checks still come back as a duplicate-entry conflict.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return DuplicateEntry("duplicate entry")
	}
	return Internal("internal server error")
}
