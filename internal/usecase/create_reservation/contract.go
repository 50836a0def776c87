package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов.
// Внутри транзакции оба метода блокируют строки слотов.
type SlotRepository interface {
	GetByStartInstant(ctx context.Context, instant time.Time) (*domain.TimeSlot, error)
	GetOverlapping(ctx context.Context, interval domain.Interval) ([]*domain.TimeSlot, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetConfirmedInRange(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator генератор публичных идентификаторов бронирований
type IDGenerator interface {
	NewID() (string, error)
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	InvalidateDate(ctx context.Context, date types.Date)
}

// Notifier публикация событий бронирований
type Notifier interface {
	Notify(eventType eventbus.EventType, res *domain.Reservation)
}

// Metrics метрики размещения бронирований
type Metrics interface {
	IncReservationCreated(mode string)
	IncAllocationConflict(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
