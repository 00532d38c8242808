package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clientxce/Pick-a-Padel/internal/model"
)

// ErrInvalidTimeSlot is returned when the requested slot is not part
// of the fixed slot enumeration.
var ErrInvalidTimeSlot = errors.New("invalid time slot")

// ErrPastSlot is returned when the requested date and slot lie
// strictly in the past.
var ErrPastSlot = errors.New("cannot book time slots in the past")

// ErrHoldExpired is returned when a confirmation arrives after the
// hold window has elapsed.  The booking row is not flipped to
// EXPIRED here; the reaper owns that transition.
var ErrHoldExpired = errors.New("booking has expired")

// ErrInvalidSignature is returned when the gateway signature does
// not verify.  This is a security-relevant rejection raised before
// any store access.
var ErrInvalidSignature = errors.New("invalid payment signature")

// ErrOrderMismatch is returned when the supplied gateway order id
// does not belong to the booking being confirmed.
var ErrOrderMismatch = errors.New("order does not match booking")

// CourtUnavailableError reports that the requested court exists but
// is not bookable, naming its actual operational status.
type CourtUnavailableError struct {
	Status model.CourtStatus
}

func (e *CourtUnavailableError) Error() string {
	return fmt.Sprintf("court is currently %s", strings.ToLower(string(e.Status)))
}

// StateConflictError reports that a booking is not in HOLD, naming
// the status it is actually in.
type StateConflictError struct {
	Status model.BookingStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("booking is %s", e.Status)
}

// GatewayError wraps a failure from the payment gateway.  The hold
// transaction is rolled back, so retrying the whole hold is safe.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string { return "payment gateway: " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }
