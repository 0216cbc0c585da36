// Package handler exposes booking transitions over the daemon's local HTTP
// API.
package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/booking"
	"github.com/uniride/uniride/services/booking/repository"
)

// BookingHandler applies booking actions on behalf of the authenticated
// subject.
type BookingHandler struct {
	uc      booking.BookingUC
	actorID string
}

func NewBookingHandler(uc booking.BookingUC, actorID string) *BookingHandler {
	return &BookingHandler{
		uc:      uc,
		actorID: actorID,
	}
}

// RegisterRoutes wires the booking endpoints onto the echo instance.
func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/bookings/:booking_id/:action", h.apply)
}

type applyResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

func (h *BookingHandler) apply(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}
	action := models.BookingAction(c.Param("action"))

	status, err := h.uc.Apply(c.Request().Context(), bookingID, action, h.actorID)
	if err != nil {
		return echo.NewHTTPError(statusForError(err), err.Error())
	}

	return c.JSON(http.StatusOK, applyResponse{
		BookingID: bookingID.String(),
		Status:    string(status),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, booking.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
