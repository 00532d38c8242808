package model

import "time"

// CourtStatus enumerates the operational states of a court.  Only
// ACTIVE courts accept new bookings; INACTIVE and MAINTENANCE courts
// are hidden from availability queries and rejected at hold time.
type CourtStatus string

const (
	CourtActive      CourtStatus = "ACTIVE"      // bookable
	CourtInactive    CourtStatus = "INACTIVE"    // withdrawn from service
	CourtMaintenance CourtStatus = "MAINTENANCE" // temporarily closed
)

// CourtType categorises a court for display and pricing purposes.
type CourtType string

const (
	CourtIndoor  CourtType = "INDOOR"
	CourtOutdoor CourtType = "OUTDOOR"
	CourtPremium CourtType = "PREMIUM"
)

// Court represents a bookable padel court as stored in the `courts`
// table.  PricePerHour is expressed in paise (integer minor currency
// units); it is copied onto a booking at hold time so later price
// changes never affect an open reservation.
//
// Fields:
//
//	ID           – UUID primary key.
//	Name         – display name (e.g. "Court 1").
//	Type         – INDOOR, OUTDOOR or PREMIUM.
//	Description  – free-text marketing description.
//	Location     – human-readable location within the facility.
//	PricePerHour – price for one booking unit in paise.
//	Status       – operational status; only ACTIVE is bookable.
//	MaxPlayers   – capacity of the court.
//	CreatedAt    – timestamp of creation.
type Court struct {
	ID           string      // courts.id
	Name         string      // courts.name
	Type         CourtType   // courts.type
	Description  string      // courts.description
	Location     string      // courts.location
	PricePerHour int64       // courts.price_per_hour (paise)
	Status       CourtStatus // courts.status
	MaxPlayers   uint8       // courts.max_players
	CreatedAt    time.Time   // courts.created_at
}
