package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// SlotCatalog каталог слотов (создает недостающие слоты даты)
type SlotCatalog interface {
	EnsureSlots(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetConfirmedInRange(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
}

// AvailabilityCache кэш ответов. Get возвращает версию даты, Set пишет только под ней.
type AvailabilityCache interface {
	Get(ctx context.Context, date types.Date, partySize int, dest interface{}) (int64, bool)
	Set(ctx context.Context, date types.Date, partySize int, version int64, value interface{})
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
