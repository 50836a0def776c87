package get_reservation

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetByBookingID(ctx context.Context, bookingID string) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
