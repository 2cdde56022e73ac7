package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation           ErrorCode = "VALIDATION_FAILED"
	CodeTripNotFound         ErrorCode = "TRIP_NOT_FOUND"
	CodeBookingNotFound      ErrorCode = "BOOKING_NOT_FOUND"
	CodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
	CodeInsufficientCapacity ErrorCode = "INSUFFICIENT_CAPACITY"
	CodeInvalidSeatCount     ErrorCode = "INVALID_SEAT_COUNT"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeAlreadyProcessed     ErrorCode = "ALREADY_PROCESSED"
	CodeAlreadyTerminal      ErrorCode = "ALREADY_TERMINAL"
	CodeTripNotCancellable   ErrorCode = "TRIP_NOT_CANCELLABLE"
)

// Error is an expected, caller-facing failure. Anything else returned by a
// service is an internal fault.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on code so wrapped copies with a different message still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrTripNotFound         = &Error{Code: CodeTripNotFound, Message: "trip not found"}
	ErrBookingNotFound      = &Error{Code: CodeBookingNotFound, Message: "booking not found"}
	ErrNotificationNotFound = &Error{Code: CodeNotificationNotFound, Message: "notification not found"}
	ErrInsufficientCapacity = &Error{Code: CodeInsufficientCapacity, Message: "not enough available seats"}
	ErrInvalidSeatCount     = &Error{Code: CodeInvalidSeatCount, Message: "seats must be a positive number"}
	ErrForbidden            = &Error{Code: CodeForbidden, Message: "you are not allowed to perform this action"}
	ErrAlreadyProcessed     = &Error{Code: CodeAlreadyProcessed, Message: "booking has already been processed"}
	ErrAlreadyTerminal      = &Error{Code: CodeAlreadyTerminal, Message: "booking is already cancelled or rejected"}
	ErrTripNotCancellable   = &Error{Code: CodeTripNotCancellable, Message: "only active trips can be cancelled"}
)

func validationError(details string) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf("validation failed: %s", details)}
}

func insufficientCapacity(available int) *Error {
	return &Error{
		Code:    CodeInsufficientCapacity,
		Message: fmt.Sprintf("not enough available seats, %d left", available),
	}
}

// IsExpected reports whether err is a caller-facing failure rather than an internal fault.
func IsExpected(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
