package list_slots

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/pkg/types"
)

const msgInvalidDate = "invalid date, expected YYYY-MM-DD"

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/dates/{date}/slots
// Для рабочего дня недостающие слоты создаются.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := mux.Vars(r)["date"]

	date, err := types.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /admin/dates/{date}/slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slots, err := h.service.ListSlots(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/dates/{date}/slots - Failed to list slots: date=%s, error=%v", date, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/dates/{date}/slots - Slots retrieved: date=%s, count=%d", date, len(slots))
	handlers.RespondJSON(w, http.StatusOK, FromDomainSlots(date.String(), slots))
}
