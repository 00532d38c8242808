package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clientxce/Pick-a-Padel/internal/clock"
	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/payment"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
)

const testKeySecret = "test_key_secret"

var testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func activeCourt(id string) model.Court {
	return model.Court{
		ID:           id,
		Name:         "Court 1",
		Type:         model.CourtIndoor,
		PricePerHour: 120000,
		Status:       model.CourtActive,
		MaxPlayers:   4,
	}
}

func newTestService(store *fakeStore, gw *fakeGateway, opts ...BookingOption) *BookingService {
	return NewBookingService(store, gw, clock.NewFixed(testNow), testKeySecret, opts...)
}

func holdInput(courtID string) HoldInput {
	return HoldInput{
		CourtID:   courtID,
		Date:      "2025-06-10",
		TimeSlot:  "18:00",
		UserID:    7,
		UserEmail: "player@example.com",
	}
}

func TestHold(t *testing.T) {
	t.Run("creates hold with pinned price and order", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		gw := &fakeGateway{}
		svc := newTestService(store, gw)

		res, err := svc.Hold(context.Background(), holdInput("c1"))
		if err != nil {
			t.Fatalf("Hold: %v", err)
		}
		if res.Booking.Status != model.BookingHold {
			t.Errorf("status = %s, want HOLD", res.Booking.Status)
		}
		if res.Booking.Amount != 120000 {
			t.Errorf("amount = %d, want 120000", res.Booking.Amount)
		}
		if res.Booking.ExpiresAt == nil {
			t.Fatal("ExpiresAt not set")
		}
		if got, want := *res.Booking.ExpiresAt, testNow.Add(10*time.Minute); !got.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", got, want)
		}
		if res.OrderID == "" {
			t.Error("no gateway order id")
		}
		pay := store.payments[res.Booking.PaymentID]
		if pay.Status != model.PaymentCreated {
			t.Errorf("payment status = %s, want CREATED", pay.Status)
		}
		if pay.RazorpayOrderID != res.OrderID {
			t.Errorf("payment order = %s, want %s", pay.RazorpayOrderID, res.OrderID)
		}
		if len(gw.orders) != 1 || gw.orders[0].Amount != 120000 {
			t.Errorf("gateway order params = %+v", gw.orders)
		}
		if res.Booking.UserEmail != "player@example.com" {
			t.Errorf("booking email = %q, want the hold request's contact email", res.Booking.UserEmail)
		}
	})

	t.Run("rejects unknown time slot", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})

		in := holdInput("c1")
		in.TimeSlot = "18:30"
		if _, err := svc.Hold(context.Background(), in); !errors.Is(err, ErrInvalidTimeSlot) {
			t.Fatalf("err = %v, want ErrInvalidTimeSlot", err)
		}
	})

	t.Run("rejects slot in the past", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})

		in := holdInput("c1")
		in.TimeSlot = "08:00" // clock is fixed at 09:30
		if _, err := svc.Hold(context.Background(), in); !errors.Is(err, ErrPastSlot) {
			t.Fatalf("err = %v, want ErrPastSlot", err)
		}
	})

	t.Run("unknown court", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeGateway{})
		if _, err := svc.Hold(context.Background(), holdInput("nope")); !errors.Is(err, repository.ErrCourtNotFound) {
			t.Fatalf("err = %v, want ErrCourtNotFound", err)
		}
	})

	t.Run("court under maintenance", func(t *testing.T) {
		store := newFakeStore()
		c := activeCourt("c1")
		c.Status = model.CourtMaintenance
		store.courts["c1"] = c
		svc := newTestService(store, &fakeGateway{})

		_, err := svc.Hold(context.Background(), holdInput("c1"))
		var unavailable *CourtUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("err = %v, want CourtUnavailableError", err)
		}
		if unavailable.Status != model.CourtMaintenance {
			t.Errorf("status = %s, want MAINTENANCE", unavailable.Status)
		}
	})

	t.Run("slot already taken", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})

		if _, err := svc.Hold(context.Background(), holdInput("c1")); err != nil {
			t.Fatalf("first hold: %v", err)
		}
		in := holdInput("c1")
		in.UserID = 8
		if _, err := svc.Hold(context.Background(), in); !errors.Is(err, repository.ErrSlotTaken) {
			t.Fatalf("err = %v, want ErrSlotTaken", err)
		}
	})

	t.Run("stale hold on the slot is released", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		stale := testNow.Add(-time.Minute)
		store.bookings["old"] = model.Booking{
			ID: "old", CourtID: "c1", UserID: 3,
			Date: "2025-06-10", TimeSlot: "18:00",
			Status: model.BookingHold, ExpiresAt: &stale,
		}
		svc := newTestService(store, &fakeGateway{})

		res, err := svc.Hold(context.Background(), holdInput("c1"))
		if err != nil {
			t.Fatalf("Hold: %v", err)
		}
		if res.Booking.Status != model.BookingHold {
			t.Errorf("new booking status = %s", res.Booking.Status)
		}
		if got := store.bookings["old"].Status; got != model.BookingExpired {
			t.Errorf("stale booking status = %s, want EXPIRED", got)
		}
	})

	t.Run("gateway failure rolls back everything", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		gw := &fakeGateway{err: errors.New("boom")}
		svc := newTestService(store, gw)

		_, err := svc.Hold(context.Background(), holdInput("c1"))
		var gwe *GatewayError
		if !errors.As(err, &gwe) {
			t.Fatalf("err = %v, want GatewayError", err)
		}
		if len(store.bookings) != 0 || len(store.payments) != 0 {
			t.Errorf("store not rolled back: %d bookings, %d payments", len(store.bookings), len(store.payments))
		}
	})

	t.Run("concurrent holds admit exactly one", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})

		const n = 16
		errs := make(chan error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(uid uint64) {
				defer wg.Done()
				in := holdInput("c1")
				in.UserID = uid
				_, err := svc.Hold(context.Background(), in)
				errs <- err
			}(uint64(i + 1))
		}
		wg.Wait()
		close(errs)

		won, lost := 0, 0
		for err := range errs {
			switch {
			case err == nil:
				won++
			case errors.Is(err, repository.ErrSlotTaken):
				lost++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if won != 1 || lost != n-1 {
			t.Errorf("won = %d, lost = %d, want 1 and %d", won, lost, n-1)
		}
		active := 0
		for _, b := range store.bookings {
			if b.Status.Active() {
				active++
			}
		}
		if active != 1 {
			t.Errorf("active bookings = %d, want 1", active)
		}
	})

	t.Run("custom hold duration", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{}, WithHoldDuration(5*time.Minute))

		res, err := svc.Hold(context.Background(), holdInput("c1"))
		if err != nil {
			t.Fatalf("Hold: %v", err)
		}
		if got, want := *res.Booking.ExpiresAt, testNow.Add(5*time.Minute); !got.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", got, want)
		}
	})
}

// placeHold is a helper that runs a successful hold and returns its result.
func placeHold(t *testing.T, svc *BookingService, in HoldInput) HoldResult {
	t.Helper()
	res, err := svc.Hold(context.Background(), in)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	return res
}

func confirmInput(hold HoldResult, userID uint64) ConfirmInput {
	paymentID := "pay_ABC123"
	return ConfirmInput{
		BookingID: hold.Booking.ID,
		OrderID:   hold.OrderID,
		PaymentID: paymentID,
		Signature: payment.Sign(testKeySecret, hold.OrderID, paymentID),
		UserID:    userID,
	}
}

func TestConfirm(t *testing.T) {
	t.Run("promotes hold to confirmed", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		pub := &capturePublisher{}
		svc := newTestService(store, &fakeGateway{}, WithPublisher(pub))
		hold := placeHold(t, svc, holdInput("c1"))

		res, err := svc.Confirm(context.Background(), confirmInput(hold, 7))
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if res.Booking.Status != model.BookingConfirmed {
			t.Errorf("status = %s, want CONFIRMED", res.Booking.Status)
		}
		if res.Booking.ExpiresAt != nil {
			t.Error("ExpiresAt not cleared")
		}
		if res.Booking.ConfirmedAt == nil || !res.Booking.ConfirmedAt.Equal(testNow) {
			t.Errorf("ConfirmedAt = %v, want %v", res.Booking.ConfirmedAt, testNow)
		}
		if res.Payment.Status != model.PaymentPaid {
			t.Errorf("payment status = %s, want PAID", res.Payment.Status)
		}
		if res.Payment.RazorpayPaymentID == nil || *res.Payment.RazorpayPaymentID != "pay_ABC123" {
			t.Errorf("gateway payment id not recorded: %+v", res.Payment)
		}
		if len(pub.events) != 1 {
			t.Fatalf("published %d events, want 1", len(pub.events))
		}
		if ev := pub.events[0]; ev.BookingID != hold.Booking.ID || ev.Amount != 120000 {
			t.Errorf("event = %+v", ev)
		}
		if pub.events[0].CourtName != "Court 1" {
			t.Errorf("event court name = %q", pub.events[0].CourtName)
		}
	})

	t.Run("price pinned at hold time", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		// Catalog price doubles after the hold is placed.
		c := store.courts["c1"]
		c.PricePerHour = 240000
		store.courts["c1"] = c

		res, err := svc.Confirm(context.Background(), confirmInput(hold, 7))
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if res.Booking.Amount != 120000 {
			t.Errorf("amount = %d, want the price at hold time", res.Booking.Amount)
		}
	})

	t.Run("invalid signature never touches the store", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		in := confirmInput(hold, 7)
		in.Signature = "deadbeef"
		if _, err := svc.Confirm(context.Background(), in); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("err = %v, want ErrInvalidSignature", err)
		}
		if got := store.bookings[hold.Booking.ID].Status; got != model.BookingHold {
			t.Errorf("booking status = %s, want HOLD untouched", got)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		in := confirmInput(hold, 7)
		in.BookingID = "missing"
		if _, err := svc.Confirm(context.Background(), in); !errors.Is(err, repository.ErrBookingNotFound) {
			t.Fatalf("err = %v, want ErrBookingNotFound", err)
		}
	})

	t.Run("foreign booking is forbidden", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		if _, err := svc.Confirm(context.Background(), confirmInput(hold, 99)); !errors.Is(err, repository.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
		if got := store.bookings[hold.Booking.ID].Status; got != model.BookingHold {
			t.Errorf("booking status = %s, want HOLD untouched", got)
		}
	})

	t.Run("already confirmed", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		if _, err := svc.Confirm(context.Background(), confirmInput(hold, 7)); err != nil {
			t.Fatalf("first Confirm: %v", err)
		}
		_, err := svc.Confirm(context.Background(), confirmInput(hold, 7))
		var conflict *StateConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
		if conflict.Status != model.BookingConfirmed {
			t.Errorf("conflict status = %s", conflict.Status)
		}
	})

	t.Run("expired hold is refused but not flipped", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		// A later service instance sees the wall clock past the deadline.
		late := NewBookingService(store, &fakeGateway{}, clock.NewFixed(testNow.Add(11*time.Minute)), testKeySecret)
		if _, err := late.Confirm(context.Background(), confirmInput(hold, 7)); !errors.Is(err, ErrHoldExpired) {
			t.Fatalf("err = %v, want ErrHoldExpired", err)
		}
		if got := store.bookings[hold.Booking.ID].Status; got != model.BookingHold {
			t.Errorf("booking status = %s; the reaper owns the EXPIRED transition", got)
		}
	})

	t.Run("order id must belong to the booking", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		svc := newTestService(store, &fakeGateway{})
		hold := placeHold(t, svc, holdInput("c1"))

		in := ConfirmInput{
			BookingID: hold.Booking.ID,
			OrderID:   "order_other",
			PaymentID: "pay_ABC123",
			Signature: payment.Sign(testKeySecret, "order_other", "pay_ABC123"),
			UserID:    7,
		}
		if _, err := svc.Confirm(context.Background(), in); !errors.Is(err, ErrOrderMismatch) {
			t.Fatalf("err = %v, want ErrOrderMismatch", err)
		}
		if got := store.payments[hold.Booking.PaymentID].Status; got != model.PaymentCreated {
			t.Errorf("payment status = %s, want CREATED untouched", got)
		}
	})

	t.Run("publish failure does not fail confirmation", func(t *testing.T) {
		store := newFakeStore()
		store.courts["c1"] = activeCourt("c1")
		pub := &capturePublisher{err: errors.New("broker down")}
		svc := newTestService(store, &fakeGateway{}, WithPublisher(pub))
		hold := placeHold(t, svc, holdInput("c1"))

		res, err := svc.Confirm(context.Background(), confirmInput(hold, 7))
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		if res.Booking.Status != model.BookingConfirmed {
			t.Errorf("status = %s, want CONFIRMED", res.Booking.Status)
		}
	})
}

func TestListForUser(t *testing.T) {
	store := newFakeStore()
	store.courts["c1"] = activeCourt("c1")
	store.courts["c2"] = activeCourt("c2")
	svc := newTestService(store, &fakeGateway{})

	first := placeHold(t, svc, holdInput("c1"))
	second := holdInput("c2")
	second.TimeSlot = "19:00"
	placeHold(t, svc, second)

	other := holdInput("c2")
	other.UserID = 99
	placeHold(t, svc, other)

	if _, err := svc.Confirm(context.Background(), confirmInput(first, 7)); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	list, err := svc.ListForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2 (own bookings only)", len(list))
	}
	statuses := map[string]int{}
	for _, d := range list {
		statuses[d.Status]++
	}
	if statuses["CONFIRMED"] != 1 || statuses["HOLD"] != 1 {
		t.Errorf("statuses = %v", statuses)
	}
}
