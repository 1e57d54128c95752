package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/repository"
	"github.com/restomap/booking-backend/internal/service"
)

// CallbackHandler receives fulfillment outcome reports from the
// external workers. The route is guarded by the internal shared-secret
// middleware; workers are semi-trusted, so the outcome code is still
// validated against the configured mapping.
type CallbackHandler struct {
	Fulfillment *service.Fulfillment
}

func NewCallbackHandler(f *service.Fulfillment) *CallbackHandler {
	return &CallbackHandler{Fulfillment: f}
}

// ReportOutcome handles POST /api/internal/bookings/:id/outcome.
// Responses: 200 with the resulting status, 400 for an unknown outcome
// code, 404 for an unknown booking, 409 when the opposite terminal
// outcome was already applied. Redelivery of the same outcome returns
// 200 like the first delivery did, so workers may retry blindly.
func (h *CallbackHandler) ReportOutcome(c echo.Context) error {
	bookingID := strings.TrimSpace(c.Param("id"))
	if bookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking id required"})
	}
	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Outcome) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "outcome required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	booking, err := h.Fulfillment.ReportOutcome(ctx, bookingID, strings.TrimSpace(req.Outcome))
	switch {
	case errors.Is(err, service.ErrUnknownOutcome):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown outcome code"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already decided"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply outcome failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id": booking.ID,
		"status":     string(booking.Status),
	})
}
