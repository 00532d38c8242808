package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clientxce/Pick-a-Padel/internal/repository"
	"github.com/clientxce/Pick-a-Padel/internal/service"
)

// AvailabilityHandler serves the public slot availability view.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

func NewAvailabilityHandler(a *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: a}
}

type availabilityQuery struct {
	Date    string `query:"date" validate:"required,datetime=2006-01-02"`
	CourtID string `query:"court_id" validate:"omitempty,uuid"`
}

// ForDate returns per-court free and booked slots for a date.  The
// date is required; court_id optionally narrows the answer to one
// court.
func (h *AvailabilityHandler) ForDate(c echo.Context) error {
	var q availabilityQuery
	if err := c.Bind(&q); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return invalidInput(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	courts, err := h.Availability.ForDate(ctx, q.Date, q.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return fail(c, http.StatusNotFound, "COURT_NOT_FOUND", "court not found")
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load availability")
	}

	return ok(c, http.StatusOK, echo.Map{
		"date":   q.Date,
		"courts": courts,
	})
}
