package get_date_reservations

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/service/reservations/models"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type ReservationService interface {
	ListByDate(ctx context.Context, date types.Date) (*models.DateReservationsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
