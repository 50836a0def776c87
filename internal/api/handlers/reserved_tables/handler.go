package reserved_tables

import (
	"net/http"
	"time"

	"github.com/m04kA/TableBookingService/internal/api/handlers"
)

const (
	msgMissingStartInstant = "startInstant is required"
	msgInvalidStartInstant = "invalid startInstant, expected RFC 3339 timestamp"
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

// Handle GET /api/v1/reserved-tables
// Query params: startInstant (required, RFC 3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("startInstant")
	if startStr == "" {
		h.logger.Warn("GET /reserved-tables - Missing start instant")
		handlers.RespondBadRequest(w, msgMissingStartInstant)
		return
	}

	instant, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		h.logger.Warn("GET /reserved-tables - Invalid start instant %q: %v", startStr, err)
		handlers.RespondBadRequest(w, msgInvalidStartInstant)
		return
	}

	result, err := h.service.ReservedTables(r.Context(), instant.UTC())
	if err != nil {
		h.logger.Error("GET /reserved-tables - Failed to get reserved tables: start=%s, error=%v", startStr, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /reserved-tables - Reserved tables retrieved: start=%s, count=%d",
		startStr, len(result.TableNumbers))
	handlers.RespondJSON(w, http.StatusOK, result)
}
