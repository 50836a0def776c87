package list_slots

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type SlotService interface {
	ListSlots(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
