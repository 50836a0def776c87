package set_slot_active

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/api/handlers/list_slots"
	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

const (
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgInvalidTime        = "invalid slot time, expected HH:MM"
	msgInvalidRequestBody = "invalid request body"
	msgMissingIsActive    = "isActive is required"
	msgNotFound           = "slot not found"
)

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

// Handle PUT /api/v1/admin/dates/{date}/slots/{time}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	date, err := types.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("PUT /admin/dates/{date}/slots/{time} - Invalid date %q: %v", vars["date"], err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slotTime, err := types.NewTimeStringFromString(vars["time"])
	if err != nil {
		h.logger.Warn("PUT /admin/dates/{date}/slots/{time} - Invalid time %q: %v", vars["time"], err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	var req SetSlotActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/dates/{date}/slots/{time} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.IsActive == nil {
		h.logger.Warn("PUT /admin/dates/{date}/slots/{time} - Missing isActive")
		handlers.RespondBadRequest(w, msgMissingIsActive)
		return
	}

	slot, err := h.service.SetSlotActive(r.Context(), date, slotTime, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("PUT /admin/dates/{date}/slots/{time} - Slot not found: date=%s, time=%s", date, slotTime)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PUT /admin/dates/{date}/slots/{time} - Failed to update slot: date=%s, time=%s, error=%v",
				date, slotTime, err)
			handlers.RespondDomainError(w, err)
		}
		return
	}

	h.logger.Info("PUT /admin/dates/{date}/slots/{time} - Slot updated: date=%s, time=%s, active=%t",
		date, slotTime, slot.IsActive)
	handlers.RespondJSON(w, http.StatusOK, list_slots.FromDomainSlot(slot))
}
