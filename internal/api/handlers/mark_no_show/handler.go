package mark_no_show

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
	msgNotConfirmed     = "only confirmed reservations can be marked as no-show"
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

// Handle PUT /api/v1/admin/reservations/{bookingId}/no-show
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	if bookingID == "" {
		h.logger.Warn("PUT /admin/reservations/{id}/no-show - Missing booking ID")
		handlers.RespondBadRequest(w, msgMissingBookingID)
		return
	}

	result, err := h.service.MarkNoShow(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PUT /admin/reservations/{id}/no-show - Reservation not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAlreadyCancelled):
			h.logger.Warn("PUT /admin/reservations/{id}/no-show - Invalid transition: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgNotConfirmed)

		default:
			h.logger.Error("PUT /admin/reservations/{id}/no-show - Failed to mark no-show: booking_id=%s, error=%v",
				bookingID, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /admin/reservations/{id}/no-show - Reservation marked as no-show: booking_id=%s", result.BookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
