package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clientxce/Pick-a-Padel/internal/validator"
)

// errBody is the envelope used for all error responses.  Code carries a
// stable machine-readable identifier so clients can branch without
// string-matching messages.
type errBody struct {
	Success bool                   `json:"success"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []validator.FieldError `json:"details,omitempty"`
}

// okBody is the envelope used for all success responses.
type okBody struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, okBody{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, errBody{Code: code, Message: message})
}

// invalidInput renders validation failures as a 400 with per-field
// details when the error came from the request validator.
func invalidInput(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		return c.JSON(http.StatusBadRequest, errBody{
			Code:    "VALIDATION_ERROR",
			Message: "request body failed validation",
			Details: verrs,
		})
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

// currentUserID extracts the authenticated user's ID injected by the JWT
// middleware.  The claim arrives as a float64 (JSON number) or string
// depending on how the token was minted.
func currentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), v > 0
	case uint64:
		return v, v > 0
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		return n, err == nil && n > 0
	default:
		return 0, false
	}
}
