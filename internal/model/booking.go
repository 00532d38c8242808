package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A
// booking starts as HOLD and may transition exactly once: to
// CONFIRMED via payment verification, to EXPIRED when its hold
// window elapses without payment, or to CANCELLED by explicit
// administrative action.  All three non-HOLD states are terminal.
type BookingStatus string

const (
	BookingHold      BookingStatus = "HOLD"      // tentative, blocks the slot until ExpiresAt
	BookingConfirmed BookingStatus = "CONFIRMED" // paid, blocks the slot permanently
	BookingExpired   BookingStatus = "EXPIRED"   // hold elapsed, slot released
	BookingCancelled BookingStatus = "CANCELLED" // explicitly cancelled, slot released
)

// Active reports whether a booking in this status blocks its
// (court, date, slot) tuple.  Only HOLD and CONFIRMED do; the
// uniqueness invariant is enforced over these two states.
func (s BookingStatus) Active() bool {
	return s == BookingHold || s == BookingConfirmed
}

// Terminal reports whether no further transition is permitted out of
// this status.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingExpired || s == BookingCancelled
}

// Booking records a user's reservation of a single court for one
// fixed-duration slot on a calendar day.  It mirrors the `bookings`
// table.  The monetary amount is pinned from the court's price at
// hold time.  ExpiresAt is set only while the booking is in HOLD and
// cleared on confirmation; ConfirmedAt is set only on the transition
// to CONFIRMED.
//
// Fields:
//
//	ID          – UUID primary key.
//	CourtID     – court being booked.
//	UserID      – owner of the booking.
//	UserEmail   – contact email (required).
//	UserName    – contact name (optional).
//	UserPhone   – contact phone (optional).
//	Date        – calendar day in YYYY-MM-DD form, no time component.
//	TimeSlot    – start time, one of the fixed slot enumeration.
//	DurationMin – booking unit length in minutes (always 60).
//	Status      – lifecycle status.
//	Amount      – price in paise copied from the court at hold time.
//	PaymentID   – the payment order created alongside this booking (1:1).
//	Notes       – optional free-text note from the customer.
//	ExpiresAt   – hold deadline; nil unless status is HOLD.
//	ConfirmedAt – confirmation instant; nil unless status is CONFIRMED.
//	CreatedAt   – timestamp of creation.
type Booking struct {
	ID          string        // bookings.id
	CourtID     string        // bookings.court_id
	UserID      uint64        // bookings.user_id
	UserEmail   string        // bookings.user_email
	UserName    *string       // bookings.user_name (nullable)
	UserPhone   *string       // bookings.user_phone (nullable)
	Date        string        // bookings.date (DATE)
	TimeSlot    string        // bookings.time_slot
	DurationMin uint16        // bookings.duration_min
	Status      BookingStatus // bookings.status
	Amount      int64         // bookings.amount (paise)
	PaymentID   string        // bookings.payment_id
	Notes       *string       // bookings.notes (nullable)
	ExpiresAt   *time.Time    // bookings.expires_at (nullable)
	ConfirmedAt *time.Time    // bookings.confirmed_at (nullable)
	CreatedAt   time.Time     // bookings.created_at
}
