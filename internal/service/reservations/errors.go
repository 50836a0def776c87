package reservations

import (
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = fmt.Errorf("%w: reservation", domain.ErrNotFound)
)
