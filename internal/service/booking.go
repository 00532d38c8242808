package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/clientxce/Pick-a-Padel/internal/clock"
	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/payment"
	"github.com/clientxce/Pick-a-Padel/internal/queue"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
)

// BookingStore is the persistence surface the booking workflow
// needs.  *repository.BookingRepo is the MySQL implementation; tests
// substitute an in-memory fake.  Methods called between WithTx's fn
// boundaries join the transaction carried by the context.
type BookingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CourtByID(ctx context.Context, courtID string) (model.Court, error)
	ReleaseExpiredHold(ctx context.Context, courtID, date, slot string, now time.Time) error
	SlotTaken(ctx context.Context, courtID, date, slot string) (bool, error)
	CreatePayment(ctx context.Context, p *model.Payment) error
	CreateBooking(ctx context.Context, b *model.Booking) error
	BookingForUpdate(ctx context.Context, bookingID string) (model.Booking, error)
	PaymentForUpdate(ctx context.Context, paymentID string) (model.Payment, error)
	MarkPaymentPaid(ctx context.Context, paymentID, gatewayPaymentID, signature string) error
	ConfirmBooking(ctx context.Context, bookingID string, confirmedAt time.Time) error
	ListActiveByUser(ctx context.Context, userID uint64) ([]repository.UserBookingDetail, error)
}

// EventPublisher emits domain events after successful confirmation.
// Publishing is best-effort and never fails the request.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingService implements the hold and confirmation transactions.
// Hold duration, currency and the gateway signing secret are injected
// at construction so tests can vary them deterministically.
type BookingService struct {
	store     BookingStore
	gateway   payment.Gateway
	clock     clock.Clock
	publisher EventPublisher
	holdFor   time.Duration
	currency  string
	keySecret string
}

const defaultHoldDuration = 10 * time.Minute

// NewBookingService builds a BookingService.  keySecret is the
// Razorpay key secret used for local signature verification.
func NewBookingService(store BookingStore, gw payment.Gateway, clk clock.Clock, keySecret string, opts ...BookingOption) *BookingService {
	svc := &BookingService{
		store:     store,
		gateway:   gw,
		clock:     clk,
		holdFor:   defaultHoldDuration,
		currency:  "INR",
		keySecret: keySecret,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingOption func(*BookingService)

// WithHoldDuration overrides the default 10 minute hold window.
func WithHoldDuration(d time.Duration) BookingOption {
	return func(s *BookingService) {
		if d > 0 {
			s.holdFor = d
		}
	}
}

// WithCurrency overrides the default INR currency code.
func WithCurrency(c string) BookingOption {
	return func(s *BookingService) {
		if c != "" {
			s.currency = c
		}
	}
}

// WithPublisher attaches an event publisher notified after each
// successful confirmation.
func WithPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) { s.publisher = p }
}

// HoldInput carries a validated hold request.  Date must be
// YYYY-MM-DD; the handler's validator guarantees the format.
type HoldInput struct {
	CourtID   string
	Date      string
	TimeSlot  string
	UserID    uint64
	UserEmail string
	UserName  *string
	UserPhone *string
	Notes     *string
}

// HoldResult is everything the client needs to proceed to payment.
type HoldResult struct {
	Booking model.Booking
	Court   model.Court
	Payment model.Payment
	OrderID string
}

// Hold atomically reserves a (court, date, slot) for the caller.
// Inside one transaction it validates the court, releases a stale
// hold occupying the target slot, checks the slot is free, creates a
// gateway order for the court's current price, and persists the
// payment order plus a HOLD booking expiring after the configured
// hold duration.  Any failure, including the gateway call, aborts
// the whole unit; two concurrent holds for the same slot cannot both
// succeed because the insert is arbitrated by the unique index over
// active bookings.
func (s *BookingService) Hold(ctx context.Context, in HoldInput) (HoldResult, error) {
	if !model.IsValidTimeSlot(in.TimeSlot) {
		return HoldResult{}, ErrInvalidTimeSlot
	}
	now := s.clock.Now()
	slotStart, err := time.Parse("2006-01-02 15:04", in.Date+" "+in.TimeSlot)
	if err != nil {
		return HoldResult{}, ErrPastSlot
	}
	if slotStart.Before(now) {
		return HoldResult{}, ErrPastSlot
	}

	var result HoldResult
	err = s.store.WithTx(ctx, func(txCtx context.Context) error {
		court, err := s.store.CourtByID(txCtx, in.CourtID)
		if err != nil {
			return err
		}
		if court.Status != model.CourtActive {
			return &CourtUnavailableError{Status: court.Status}
		}

		// A hold whose window elapsed must not block the slot; flip
		// it to EXPIRED before the uniqueness check so the index over
		// active rows stays authoritative.
		if err := s.store.ReleaseExpiredHold(txCtx, in.CourtID, in.Date, in.TimeSlot, now); err != nil {
			return err
		}
		taken, err := s.store.SlotTaken(txCtx, in.CourtID, in.Date, in.TimeSlot)
		if err != nil {
			return err
		}
		if taken {
			return repository.ErrSlotTaken
		}

		order, err := s.gateway.CreateOrder(txCtx, payment.CreateOrderParams{
			Amount:   court.PricePerHour,
			Currency: s.currency,
			Receipt:  fmt.Sprintf("booking_%d", now.UnixMilli()),
			Notes: map[string]string{
				"court_id":   court.ID,
				"court_name": court.Name,
				"date":       in.Date,
				"time_slot":  in.TimeSlot,
				"user_id":    fmt.Sprintf("%d", in.UserID),
			},
		})
		if err != nil {
			return &GatewayError{Err: err}
		}

		pay := model.Payment{
			ID:              uuid.NewString(),
			RazorpayOrderID: order.ID,
			Amount:          court.PricePerHour,
			Currency:        s.currency,
			Status:          model.PaymentCreated,
			Email:           in.UserEmail,
			Phone:           in.UserPhone,
		}
		if err := s.store.CreatePayment(txCtx, &pay); err != nil {
			return err
		}

		expiresAt := now.Add(s.holdFor)
		booking := model.Booking{
			ID:          uuid.NewString(),
			CourtID:     court.ID,
			UserID:      in.UserID,
			UserEmail:   in.UserEmail,
			UserName:    in.UserName,
			UserPhone:   in.UserPhone,
			Date:        in.Date,
			TimeSlot:    in.TimeSlot,
			DurationMin: model.SlotDurationMin,
			Status:      model.BookingHold,
			Amount:      court.PricePerHour,
			PaymentID:   pay.ID,
			Notes:       in.Notes,
			ExpiresAt:   &expiresAt,
			CreatedAt:   now,
		}
		if err := s.store.CreateBooking(txCtx, &booking); err != nil {
			return err
		}

		result = HoldResult{Booking: booking, Court: court, Payment: pay, OrderID: order.ID}
		return nil
	})
	if err != nil {
		return HoldResult{}, err
	}
	return result, nil
}

// ConfirmInput carries a payment verification request.
type ConfirmInput struct {
	BookingID string
	OrderID   string
	PaymentID string
	Signature string
	UserID    uint64
}

// ConfirmResult reports the promoted booking and its payment.
type ConfirmResult struct {
	Booking model.Booking
	Payment model.Payment
}

// Confirm verifies the gateway signature and promotes a HOLD booking
// to CONFIRMED.  Signature verification is a local HMAC comparison
// performed before any store access; a mismatch never touches the
// database.  The transaction then checks existence, ownership,
// status and expiry in order, records the payment identifiers and
// clears the hold expiry.  A stale hold is refused but not expired
// here; the reaper owns that transition.
func (s *BookingService) Confirm(ctx context.Context, in ConfirmInput) (ConfirmResult, error) {
	if !payment.VerifySignature(s.keySecret, in.OrderID, in.PaymentID, in.Signature) {
		return ConfirmResult{}, ErrInvalidSignature
	}

	now := s.clock.Now()
	var result ConfirmResult
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		booking, err := s.store.BookingForUpdate(txCtx, in.BookingID)
		if err != nil {
			return err
		}
		if booking.UserID != in.UserID {
			return repository.ErrForbidden
		}
		if booking.Status != model.BookingHold {
			return &StateConflictError{Status: booking.Status}
		}
		if booking.ExpiresAt != nil && booking.ExpiresAt.Before(now) {
			return ErrHoldExpired
		}

		pay, err := s.store.PaymentForUpdate(txCtx, booking.PaymentID)
		if err != nil {
			return err
		}
		if pay.RazorpayOrderID != in.OrderID {
			return ErrOrderMismatch
		}

		if err := s.store.MarkPaymentPaid(txCtx, pay.ID, in.PaymentID, in.Signature); err != nil {
			return err
		}
		if err := s.store.ConfirmBooking(txCtx, booking.ID, now); err != nil {
			return err
		}

		booking.Status = model.BookingConfirmed
		booking.ConfirmedAt = &now
		booking.ExpiresAt = nil
		pay.Status = model.PaymentPaid
		pay.RazorpayPaymentID = &in.PaymentID
		pay.RazorpaySignature = &in.Signature
		result = ConfirmResult{Booking: booking, Payment: pay}
		return nil
	})
	if err != nil {
		return ConfirmResult{}, err
	}

	if s.publisher != nil {
		courtName := ""
		if court, err := s.store.CourtByID(ctx, result.Booking.CourtID); err == nil {
			courtName = court.Name
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:   result.Booking.ID,
			UserID:      result.Booking.UserID,
			CourtID:     result.Booking.CourtID,
			CourtName:   courtName,
			Date:        result.Booking.Date,
			TimeSlot:    result.Booking.TimeSlot,
			Amount:      result.Booking.Amount,
			Currency:    result.Payment.Currency,
			ConfirmedAt: now.Format(time.RFC3339),
		}
		if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking confirmed event publish failed: %v", err)
		}
	}
	return result, nil
}

// ListForUser returns the caller's HOLD and CONFIRMED bookings with
// court and payment details, ordered by date ascending.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]repository.UserBookingDetail, error) {
	return s.store.ListActiveByUser(ctx, userID)
}
