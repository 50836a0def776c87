package reserved_tables

import (
	"context"
	"time"

	"github.com/m04kA/TableBookingService/internal/service/reservations/models"
)

type ReservationService interface {
	ReservedTables(ctx context.Context, instant time.Time) (*models.ReservedTablesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
