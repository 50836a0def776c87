package get_day_stats

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/service/reservations/models"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type ReservationService interface {
	DayStats(ctx context.Context, date types.Date) (*models.DayStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
