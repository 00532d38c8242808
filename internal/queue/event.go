// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	CourtID     string `json:"court_id"`
	CourtName   string `json:"court_name,omitempty"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	ConfirmedAt string `json:"confirmed_at"`
}
