package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
	"github.com/clientxce/Pick-a-Padel/internal/service"
)

// BookingHandler exposes the hold and payment verification endpoints.
type BookingHandler struct {
	Bookings *service.BookingService
	Users    *repository.UserRepo
	KeyID    string // Razorpay key id returned to clients for checkout
}

func NewBookingHandler(b *service.BookingService, u *repository.UserRepo, keyID string) *BookingHandler {
	return &BookingHandler{Bookings: b, Users: u, KeyID: keyID}
}

// ----- DTOs -----

type holdReq struct {
	CourtID   string  `json:"court_id" validate:"required,uuid"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot  string  `json:"time_slot" validate:"required"`
	UserEmail string  `json:"user_email" validate:"required,email"`
	UserName  *string `json:"user_name" validate:"omitempty,max=100"`
	UserPhone *string `json:"user_phone" validate:"omitempty,max=20"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

type holdResp struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	CourtID   string `json:"court_id"`
	CourtName string `json:"court_name"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	OrderID   string `json:"order_id"`
	KeyID     string `json:"key_id"`
	ExpiresAt string `json:"expires_at"`
}

type verifyReq struct {
	BookingID         string `json:"booking_id" validate:"required,uuid"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type verifyResp struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	PaymentID   string `json:"payment_id"`
	ConfirmedAt string `json:"confirmed_at"`
}

// Hold places a ten minute hold on a court slot and creates the
// payment order the client completes checkout with.
func (h *BookingHandler) Hold(c echo.Context) error {
	uid, okID := currentUserID(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	var req holdReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Contact details come from the checkout form; the caller's
	// account fills in whatever the form left blank.
	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
	}
	name, phone := contactFor(req, user)

	res, err := h.Bookings.Hold(ctx, service.HoldInput{
		CourtID:   req.CourtID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		UserID:    uid,
		UserEmail: req.UserEmail,
		UserName:  name,
		UserPhone: phone,
		Notes:     req.Notes,
	})
	if err != nil {
		return h.holdError(c, err)
	}

	expires := ""
	if res.Booking.ExpiresAt != nil {
		expires = res.Booking.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return ok(c, http.StatusCreated, holdResp{
		BookingID: res.Booking.ID,
		Status:    string(res.Booking.Status),
		CourtID:   res.Court.ID,
		CourtName: res.Court.Name,
		Date:      res.Booking.Date,
		TimeSlot:  res.Booking.TimeSlot,
		Amount:    res.Booking.Amount,
		Currency:  res.Payment.Currency,
		OrderID:   res.OrderID,
		KeyID:     h.KeyID,
		ExpiresAt: expires,
	})
}

// contactFor merges the request's optional name and phone with the
// caller's account record, preferring the request.
func contactFor(req holdReq, u model.User) (name, phone *string) {
	name = req.UserName
	if name == nil {
		name = u.Name
	}
	phone = req.UserPhone
	if phone == nil {
		phone = u.Phone
	}
	return name, phone
}

func (h *BookingHandler) holdError(c echo.Context, err error) error {
	var unavailable *service.CourtUnavailableError
	var gateway *service.GatewayError
	switch {
	case errors.Is(err, service.ErrInvalidTimeSlot):
		return fail(c, http.StatusBadRequest, "INVALID_TIME_SLOT", err.Error())
	case errors.Is(err, service.ErrPastSlot):
		return fail(c, http.StatusBadRequest, "PAST_SLOT", err.Error())
	case errors.Is(err, repository.ErrCourtNotFound):
		return fail(c, http.StatusNotFound, "COURT_NOT_FOUND", "court not found")
	case errors.As(err, &unavailable):
		return fail(c, http.StatusConflict, "COURT_UNAVAILABLE", unavailable.Error())
	case errors.Is(err, repository.ErrSlotTaken):
		return fail(c, http.StatusConflict, "SLOT_UNAVAILABLE", "slot is already held or booked")
	case errors.As(err, &gateway):
		return fail(c, http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "could not create payment order")
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not place hold")
	}
}

// Verify checks the gateway signature and promotes a held booking to
// CONFIRMED.
func (h *BookingHandler) Verify(c echo.Context) error {
	uid, okID := currentUserID(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Bookings.Confirm(ctx, service.ConfirmInput{
		BookingID: req.BookingID,
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		UserID:    uid,
	})
	if err != nil {
		return h.verifyError(c, err)
	}

	confirmed := ""
	if res.Booking.ConfirmedAt != nil {
		confirmed = res.Booking.ConfirmedAt.UTC().Format(time.RFC3339)
	}
	return ok(c, http.StatusOK, verifyResp{
		BookingID:   res.Booking.ID,
		Status:      string(res.Booking.Status),
		PaymentID:   res.Payment.ID,
		ConfirmedAt: confirmed,
	})
}

func (h *BookingHandler) verifyError(c echo.Context, err error) error {
	var conflict *service.StateConflictError
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return fail(c, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
	case errors.Is(err, repository.ErrBookingNotFound):
		return fail(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "FORBIDDEN", "booking belongs to another user")
	case errors.As(err, &conflict):
		return fail(c, http.StatusConflict, "STATE_CONFLICT", conflict.Error())
	case errors.Is(err, service.ErrHoldExpired):
		return fail(c, http.StatusConflict, "HOLD_EXPIRED", err.Error())
	case errors.Is(err, service.ErrOrderMismatch):
		return fail(c, http.StatusBadRequest, "ORDER_MISMATCH", err.Error())
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not confirm booking")
	}
}

// MyBookings lists the caller's HOLD and CONFIRMED bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, okID := currentUserID(c)
	if !okID {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load bookings")
	}
	return ok(c, http.StatusOK, echo.Map{"bookings": list, "count": len(list)})
}
