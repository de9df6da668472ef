package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying a stable code and the HTTP status
// it maps to at the edge. All domain failures are user-actionable; the code
// lets callers pick a corrective message without string matching.
type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// WithMessage returns a copy with a more specific message, keeping code and status.
func (e *Error) WithMessage(format string, v ...interface{}) *Error {
	clone := *e
	clone.Message = fmt.Sprintf(format, v...)
	return &clone
}

// Wrap returns a copy carrying err as the underlying cause.
func (e *Error) Wrap(err error) *Error {
	clone := *e
	clone.Err = err
	return &clone
}

// Is makes errors.Is match on the code, so wrapped and re-messaged copies
// still compare equal to the predeclared value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden        = New("FORBIDDEN", http.StatusForbidden, "you do not own this reservation")
	ErrInvalidState     = New("INVALID_STATE", http.StatusConflict, "reservation is not active")
	ErrPastTime         = New("PAST_TIME", http.StatusBadRequest, "requested start time is in the past")
	ErrInvalidDuration  = New("INVALID_DURATION", http.StatusBadRequest, "reservation must last between 60 and 180 minutes")
	ErrDeadlinePassed   = New("DEADLINE_PASSED", http.StatusConflict, "less than one hour remains before the reservation starts")
	ErrLimitExceeded    = New("LIMIT_EXCEEDED", http.StatusConflict, "active reservation limit reached")
	ErrUserTimeConflict = New("USER_TIME_CONFLICT", http.StatusConflict, "you already hold a reservation overlapping this time")
	ErrSeatConflict     = New("SEAT_CONFLICT", http.StatusConflict, "seat is already reserved for this time")
	ErrFacilityClosed   = New("FACILITY_CLOSED", http.StatusConflict, "facility is closed during the requested time")

	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	return errors.Is(err, target)
}

// FromError normalises any error into an *Error, defaulting to ErrInternal.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}
