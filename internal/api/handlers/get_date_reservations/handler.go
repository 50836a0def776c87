package get_date_reservations

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/pkg/types"
)

const msgInvalidDate = "invalid date, expected YYYY-MM-DD"

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

// Handle GET /api/v1/admin/dates/{date}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := mux.Vars(r)["date"]

	date, err := types.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /admin/dates/{date}/reservations - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.ListByDate(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/dates/{date}/reservations - Failed to list reservations: date=%s, error=%v", date, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/dates/{date}/reservations - Reservations retrieved: date=%s, total=%d",
		date, len(result.Reservations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
