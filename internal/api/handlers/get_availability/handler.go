package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/domain"
)

const (
	msgMissingDate      = "date is required"
	msgMissingPartySize = "partySize is required"
	msgInvalidPartySize = "partySize must be an integer"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), partySize (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	partySizeStr := query.Get("partySize")
	if partySizeStr == "" {
		h.logger.Warn("GET /availability - Missing party size")
		handlers.RespondBadRequest(w, msgMissingPartySize)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, partySizeStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid party size: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPartySize)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.logger.Warn("GET /availability - Invalid request: date=%s, party_size=%d, error=%v",
				dateStr, useCaseReq.PartySize, err)
		} else {
			h.logger.Error("GET /availability - Failed to get availability: date=%s, party_size=%d, error=%v",
				dateStr, useCaseReq.PartySize, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /availability - Availability retrieved: date=%s, party_size=%d, slots_count=%d",
		result.Date, result.PartySize, len(result.AvailableSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
