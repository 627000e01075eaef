// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto HTTP responses without inspecting driver error strings
// themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrSessionNotFound indicates that a session was not located in the DB.
var ErrSessionNotFound = errors.New("session not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrAccountNotFound indicates that an account was not located in the DB.
var ErrAccountNotFound = errors.New("account not found")

// ErrAlreadyBooked is returned when an account already holds a live
// booking for the requested session. Handlers should translate this
// into an HTTP 400 response.
var ErrAlreadyBooked = errors.New("session already booked")

// ErrNoSeats is returned when a session has no remaining capacity.
// Handlers should translate this into an HTTP 400 response.
var ErrNoSeats = errors.New("no seats available")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own, such as cancelling another
// account's booking. Handlers should translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrUsernameTaken is returned when registering an account whose
// username already exists. Handlers should translate this into 409.
var ErrUsernameTaken = errors.New("username already exists")

// ErrTxConflict is returned when a transaction aborts due to lock
// contention (lock wait timeout, deadlock, or a busy database). The
// aborted transaction leaves no partial writes and the operation is
// safe to retry. It is deliberately distinct from ErrNoSeats.
var ErrTxConflict = errors.New("transaction conflict")

// isDuplicate reports whether err is a unique-constraint violation.
// MySQL surfaces error 1062; SQLite reports "UNIQUE constraint failed".
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}

// isLockConflict reports whether err is a retryable lock failure.
// MySQL surfaces 1205 (lock wait timeout) and 1213 (deadlock); SQLite
// reports a busy or locked database.
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1205") ||
		strings.Contains(msg, "1213") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "table is locked") ||
		strings.Contains(msg, "busy")
}
