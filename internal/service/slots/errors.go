package slots

import (
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слота с таким временем на дату нет
	ErrSlotNotFound = fmt.Errorf("%w: slot", domain.ErrNotFound)

	// ErrPartialSlotSet возвращается, когда после записи набор слотов даты неполный
	ErrPartialSlotSet = fmt.Errorf("%w: partial slot set", domain.ErrPersistence)
)
