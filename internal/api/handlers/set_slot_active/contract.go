package set_slot_active

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type SlotService interface {
	SetSlotActive(ctx context.Context, date types.Date, slotTime types.TimeString, active bool) (*domain.TimeSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
