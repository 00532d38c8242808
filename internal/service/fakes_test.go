package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/payment"
	"github.com/clientxce/Pick-a-Padel/internal/queue"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
)

// fakeStore is an in-memory BookingStore.  WithTx holds a mutex for
// the whole unit of work, serialising transactions the way InnoDB
// row locks would, and snapshots the maps before running fn so a
// failed fn is rolled back.
type fakeStore struct {
	mu       sync.Mutex
	courts   map[string]model.Court
	bookings map[string]model.Booking
	payments map[string]model.Payment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courts:   make(map[string]model.Court),
		bookings: make(map[string]model.Booking),
		payments: make(map[string]model.Payment),
	}
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapB := make(map[string]model.Booking, len(s.bookings))
	for k, v := range s.bookings {
		snapB[k] = v
	}
	snapP := make(map[string]model.Payment, len(s.payments))
	for k, v := range s.payments {
		snapP[k] = v
	}
	if err := fn(ctx); err != nil {
		s.bookings = snapB
		s.payments = snapP
		return err
	}
	return nil
}

func (s *fakeStore) CourtByID(ctx context.Context, courtID string) (model.Court, error) {
	c, ok := s.courts[courtID]
	if !ok {
		return model.Court{}, repository.ErrCourtNotFound
	}
	return c, nil
}

func (s *fakeStore) ReleaseExpiredHold(ctx context.Context, courtID, date, slot string, now time.Time) error {
	for id, b := range s.bookings {
		if b.CourtID == courtID && b.Date == date && b.TimeSlot == slot &&
			b.Status == model.BookingHold && b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
			b.Status = model.BookingExpired
			s.bookings[id] = b
		}
	}
	return nil
}

func (s *fakeStore) SlotTaken(ctx context.Context, courtID, date, slot string) (bool, error) {
	for _, b := range s.bookings {
		if b.CourtID == courtID && b.Date == date && b.TimeSlot == slot && b.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreatePayment(ctx context.Context, p *model.Payment) error {
	s.payments[p.ID] = *p
	return nil
}

func (s *fakeStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if taken, _ := s.SlotTaken(ctx, b.CourtID, b.Date, b.TimeSlot); taken {
		return repository.ErrSlotTaken
	}
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeStore) BookingForUpdate(ctx context.Context, bookingID string) (model.Booking, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (s *fakeStore) PaymentForUpdate(ctx context.Context, paymentID string) (model.Payment, error) {
	p, ok := s.payments[paymentID]
	if !ok {
		return model.Payment{}, errors.New("payment not found")
	}
	return p, nil
}

func (s *fakeStore) MarkPaymentPaid(ctx context.Context, paymentID, gatewayPaymentID, signature string) error {
	p, ok := s.payments[paymentID]
	if !ok {
		return errors.New("payment not found")
	}
	p.Status = model.PaymentPaid
	p.RazorpayPaymentID = &gatewayPaymentID
	p.RazorpaySignature = &signature
	s.payments[paymentID] = p
	return nil
}

func (s *fakeStore) ConfirmBooking(ctx context.Context, bookingID string, confirmedAt time.Time) error {
	b, ok := s.bookings[bookingID]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = model.BookingConfirmed
	b.ConfirmedAt = &confirmedAt
	b.ExpiresAt = nil
	s.bookings[bookingID] = b
	return nil
}

func (s *fakeStore) ListActiveByUser(ctx context.Context, userID uint64) ([]repository.UserBookingDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.UserBookingDetail, 0)
	for _, b := range s.bookings {
		if b.UserID != userID || !b.Status.Active() {
			continue
		}
		court := s.courts[b.CourtID]
		out = append(out, repository.UserBookingDetail{
			ID:          b.ID,
			CourtName:   court.Name,
			CourtType:   string(court.Type),
			Date:        b.Date,
			TimeSlot:    b.TimeSlot,
			DurationMin: b.DurationMin,
			Status:      string(b.Status),
			Amount:      b.Amount,
			ExpiresAt:   b.ExpiresAt,
			ConfirmedAt: b.ConfirmedAt,
			CreatedAt:   b.CreatedAt,
		})
	}
	return out, nil
}

// fakeGateway hands out sequential order ids and can be told to fail.
type fakeGateway struct {
	mu     sync.Mutex
	orders []payment.CreateOrderParams
	err    error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, params payment.CreateOrderParams) (payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return payment.Order{}, g.err
	}
	g.orders = append(g.orders, params)
	return payment.Order{
		ID:       fmt.Sprintf("order_%03d", len(g.orders)),
		Amount:   params.Amount,
		Currency: params.Currency,
		Receipt:  params.Receipt,
		Status:   "created",
	}, nil
}

// capturePublisher records published events.
type capturePublisher struct {
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *capturePublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}
