package slots

import (
	"context"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	InsertBatch(ctx context.Context, slots []*domain.TimeSlot) (int64, error)
	GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error)
	SetActive(ctx context.Context, date types.Date, slotTime types.TimeString, active bool) (*domain.TimeSlot, error)
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	InvalidateDate(ctx context.Context, date types.Date)
}

// Metrics метрики каталога слотов
type Metrics interface {
	AddSlotsSeeded(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
