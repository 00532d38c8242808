// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to operate on a booking owned by someone
// else, while ErrSlotTaken signals that the requested
// (court, date, slot) tuple is already held or confirmed.
package repository

import "errors"

// ErrCourtNotFound is returned when the referenced court does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrCourtNotFound = errors.New("court not found")

// ErrBookingNotFound is returned when the referenced booking does
// not exist. Handlers should translate this into an HTTP 404
// response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotTaken is returned when a hold cannot be created because an
// active (HOLD or CONFIRMED) booking already occupies the requested
// court, date and time slot. This is the conflict the hold
// transaction exists to surface; handlers should translate it into
// an HTTP 409 response with a distinct machine code.
var ErrSlotTaken = errors.New("slot already taken")

// ErrForbidden is returned when the caller attempts an operation
// on a booking they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
