package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason is the machine-readable code attached to every rejected operation.
type Reason string

const (
	Conflict          Reason = "Conflict"
	NotFound          Reason = "NotFound"
	InvalidTransition Reason = "InvalidTransition"
	TooEarly          Reason = "TooEarly"
	NotConfirmed      Reason = "NotConfirmed"
	NotCheckedIn      Reason = "NotCheckedIn"
	TerminalState     Reason = "TerminalState"
	RoomInUse         Reason = "RoomInUse"
	InvalidRange      Reason = "InvalidRange"
	CapacityExceeded  Reason = "CapacityExceeded"
	InvalidInput      Reason = "InvalidInput"
)

// Error is a rejected outcome. Infrastructure failures are never wrapped in it.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Is matches any *Error with the same reason, so errors.Is(err, ErrConflict) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == e.Reason
}

// ==================== SENTINELS ====================

var (
	ErrConflict          = &Error{Reason: Conflict}
	ErrNotFound          = &Error{Reason: NotFound}
	ErrInvalidTransition = &Error{Reason: InvalidTransition}
	ErrTooEarly          = &Error{Reason: TooEarly}
	ErrNotConfirmed      = &Error{Reason: NotConfirmed}
	ErrNotCheckedIn      = &Error{Reason: NotCheckedIn}
	ErrTerminalState     = &Error{Reason: TerminalState}
	ErrRoomInUse         = &Error{Reason: RoomInUse}
	ErrInvalidRange      = &Error{Reason: InvalidRange}
	ErrCapacityExceeded  = &Error{Reason: CapacityExceeded}
	ErrInvalidInput      = &Error{Reason: InvalidInput}
)

func New(reason Reason, format string, args ...any) *Error {
	return &Error{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, if it carries one.
func ReasonOf(err error) (Reason, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}

// HTTPStatus maps a reason onto the status code the HTTP adapter returns.
func HTTPStatus(reason Reason) int {
	switch reason {
	case NotFound:
		return http.StatusNotFound
	case Conflict, RoomInUse, InvalidTransition, TerminalState, NotConfirmed, NotCheckedIn, TooEarly:
		return http.StatusConflict
	case InvalidRange, CapacityExceeded:
		return http.StatusUnprocessableEntity
	case InvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
