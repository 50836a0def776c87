package create_reservation

import (
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда на момент начала нет слота
	ErrSlotNotFound = fmt.Errorf("%w: no slot starts at this instant", domain.ErrInvalidSlot)

	// ErrSlotInactive возвращается, когда слот выключен администратором
	ErrSlotInactive = fmt.Errorf("%w: slot is not active", domain.ErrInvalidSlot)
)
