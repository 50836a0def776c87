package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/domain"
)

const (
	msgMissingBookingID = "bookingId is required"
	msgNotFound         = "reservation not found"
	msgAlreadyCancelled = "reservation is already cancelled"
	msgCannotCancel     = "reservation can no longer be cancelled"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/reservations/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		h.logger.Warn("PUT /reservations/{id}/cancel - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	result, err := h.service.Cancel(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PUT /reservations/{id}/cancel - Reservation not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAlreadyCancelled):
			h.logger.Warn("PUT /reservations/{id}/cancel - Already cancelled: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PUT /reservations/{id}/cancel - Invalid transition: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PUT /reservations/{id}/cancel - Failed to cancel reservation: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /reservations/{id}/cancel - Reservation cancelled: booking_id=%s", result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
