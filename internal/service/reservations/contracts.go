package reservations

import (
	"context"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Reservation, error)
	GetByServiceDate(ctx context.Context, date types.Date) ([]*domain.Reservation, error)
	ReservedTables(ctx context.Context, instant time.Time) ([]int, error)
	UpdateStatus(ctx context.Context, bookingID string, from, to domain.ReservationStatus) (*domain.Reservation, error)
	ReleaseTables(ctx context.Context, reservationID int64) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByDate(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache инвалидация кэша доступности
type AvailabilityCache interface {
	InvalidateDate(ctx context.Context, date types.Date)
}

// Notifier публикация событий бронирований
type Notifier interface {
	Notify(eventType eventbus.EventType, res *domain.Reservation)
}

// Metrics метрики жизненного цикла бронирований
type Metrics interface {
	IncReservationCancelled()
	IncReservationNoShow()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
