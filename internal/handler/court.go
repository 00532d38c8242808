package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clientxce/Pick-a-Padel/internal/model"
	"github.com/clientxce/Pick-a-Padel/internal/repository"
)

// CourtHandler serves the public court catalog.
type CourtHandler struct {
	Courts *repository.CourtRepo
}

func NewCourtHandler(r *repository.CourtRepo) *CourtHandler {
	return &CourtHandler{Courts: r}
}

type courtResp struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	PricePerHour int64  `json:"price_per_hour"`
	Status       string `json:"status"`
	MaxPlayers   uint8  `json:"max_players"`
}

func toCourtResp(c model.Court) courtResp {
	return courtResp{
		ID:           c.ID,
		Name:         c.Name,
		Type:         string(c.Type),
		Description:  c.Description,
		Location:     c.Location,
		PricePerHour: c.PricePerHour,
		Status:       string(c.Status),
		MaxPlayers:   c.MaxPlayers,
	}
}

// List returns the whole catalog, bookable or not.
func (h *CourtHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	courts, err := h.Courts.ListAll(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load courts")
	}
	out := make([]courtResp, 0, len(courts))
	for _, ct := range courts {
		out = append(out, toCourtResp(ct))
	}
	return ok(c, http.StatusOK, echo.Map{"courts": out, "count": len(out)})
}

// Get returns one court by id.
func (h *CourtHandler) Get(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	court, err := h.Courts.CourtByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourtNotFound) {
			return fail(c, http.StatusNotFound, "COURT_NOT_FOUND", "court not found")
		}
		return fail(c, http.StatusInternalServerError, "INTERNAL", "could not load court")
	}
	return ok(c, http.StatusOK, toCourtResp(court))
}
