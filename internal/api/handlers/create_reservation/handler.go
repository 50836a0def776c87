package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
	"github.com/m04kA/TableBookingService/internal/domain"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgInvalidStartInstant = "invalid startInstant, expected RFC 3339 timestamp"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid start instant %q: %v", req.StartInstant, err)
		handlers.RespondBadRequest(w, msgInvalidStartInstant)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /reservations - Conflict: start=%s, party_size=%d, tables=%v, error=%v",
				req.StartInstant, req.PartySize, req.TableNumbers, err)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /reservations - Invalid request: start=%s, party_size=%d, error=%v",
				req.StartInstant, req.PartySize, err)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: start=%s, party_size=%d, error=%v",
				req.StartInstant, req.PartySize, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /reservations - Reservation created: booking_id=%s, start=%s, tables=%v",
		result.BookingID, req.StartInstant, result.TableNumbers)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
