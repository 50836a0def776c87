package get_day_stats

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

// Handle GET /api/v1/admin/dates/{date}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := mux.Vars(r)["date"]

	date, err := types.ParseDate(dateStr)
	if err != nil {
		h.logger.Warn("GET /admin/dates/{date}/stats - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	stats, err := h.service.DayStats(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /admin/dates/{date}/stats - Failed to compute stats: date=%s, error=%v", date, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /admin/dates/{date}/stats - Stats computed: date=%s, confirmed=%d, occupancy=%.1f",
		date, stats.Confirmed, stats.OccupancyRate)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
