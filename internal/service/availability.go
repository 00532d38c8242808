package service

import (
	"context"
	"time"

	"github.com/clientxce/Pick-a-Padel/internal/clock"
	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
)

// CourtSource lists bookable courts; *repository.CourtRepo is the
// MySQL implementation.
type CourtSource interface {
	ActiveCourts(ctx context.Context, courtID string) ([]model.Court, error)
}

// SlotSource reports occupied slots per court for a date;
// *repository.BookingRepo is the MySQL implementation.
type SlotSource interface {
	BookedSlots(ctx context.Context, date string, now time.Time) (map[string][]string, error)
}

// AvailabilityService derives, for a date, which slots of the fixed
// enumeration are free per ACTIVE court.  Read-only; a single
// snapshot read, no isolation beyond that.
type AvailabilityService struct {
	courts   CourtSource
	bookings SlotSource
	clock    clock.Clock
}

// NewAvailabilityService builds an AvailabilityService.
func NewAvailabilityService(courts CourtSource, bookings SlotSource, clk clock.Clock) *AvailabilityService {
	return &AvailabilityService{courts: courts, bookings: bookings, clock: clk}
}

// CourtAvailability partitions the slot enumeration for one court.
type CourtAvailability struct {
	CourtID        string   `json:"courtId"`
	CourtName      string   `json:"courtName"`
	Type           string   `json:"type"`
	PricePerHour   int64    `json:"pricePerHour"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}

// ForDate returns availability for every ACTIVE court on the given
// date, or just the court matching courtID when non-empty.  A slot
// is booked when a CONFIRMED booking or an unexpired HOLD occupies
// it.  Returns repository.ErrCourtNotFound when no active court
// matches.
func (s *AvailabilityService) ForDate(ctx context.Context, date, courtID string) ([]CourtAvailability, error) {
	courts, err := s.courts.ActiveCourts(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if len(courts) == 0 {
		return nil, repository.ErrCourtNotFound
	}

	booked, err := s.bookings.BookedSlots(ctx, date, s.clock.Now())
	if err != nil {
		return nil, err
	}

	out := make([]CourtAvailability, 0, len(courts))
	for _, c := range courts {
		taken := make(map[string]bool, len(booked[c.ID]))
		for _, slot := range booked[c.ID] {
			taken[slot] = true
		}
		avail := CourtAvailability{
			CourtID:        c.ID,
			CourtName:      c.Name,
			Type:           string(c.Type),
			PricePerHour:   c.PricePerHour,
			AvailableSlots: make([]string, 0, len(model.ValidTimeSlots)),
			BookedSlots:    make([]string, 0),
		}
		for _, slot := range model.ValidTimeSlots {
			if taken[slot] {
				avail.BookedSlots = append(avail.BookedSlots, slot)
			} else {
				avail.AvailableSlots = append(avail.AvailableSlots, slot)
			}
		}
		out = append(out, avail)
	}
	return out, nil
}
