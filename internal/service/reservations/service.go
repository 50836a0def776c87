package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
	"github.com/m04kA/TableBookingService/internal/service/reservations/models"
	"github.com/m04kA/TableBookingService/pkg/bookingid"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// Service жизненный цикл бронирований: поиск, отмена, неявка, отчеты по дате
type Service struct {
	reservationRepo ReservationRepository
	slotRepo        SlotRepository
	txManager       TransactionManager
	policy          *domain.VenuePolicy
	cache           AvailabilityCache
	notifier        Notifier
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// cache, notifier и metrics могут быть nil.
func NewService(
	reservationRepo ReservationRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	policy *domain.VenuePolicy,
	cache AvailabilityCache,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		slotRepo:        slotRepo,
		txManager:       txManager,
		policy:          policy,
		cache:           cache,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByBookingID получает бронирование по публичному идентификатору
func (s *Service) GetByBookingID(ctx context.Context, bookingID string) (*models.ReservationResponse, error) {
	bookingID = bookingid.Normalize(bookingID)
	s.logger.Info("GetByBookingID: fetching booking=%s", bookingID)

	res, err := s.get(ctx, "GetByBookingID", bookingID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(res), nil
}

// Cancel отменяет подтвержденное бронирование и освобождает его столы
func (s *Service) Cancel(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	return s.transition(ctx, "Cancel", bookingID, domain.StatusCancelled)
}

// MarkNoShow отмечает неявку гостей. Столы освобождаются так же, как при отмене.
func (s *Service) MarkNoShow(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	return s.transition(ctx, "MarkNoShow", bookingID, domain.StatusNoShow)
}

// ReservedTables возвращает номера столов, занятых подтвержденными бронированиями на момент начала
func (s *Service) ReservedTables(ctx context.Context, instant time.Time) (*models.ReservedTablesResponse, error) {
	s.logger.Info("ReservedTables: instant=%s", instant.UTC().Format(time.RFC3339))

	tables, err := s.reservationRepo.ReservedTables(ctx, instant)
	if err != nil {
		s.logger.Error("ReservedTables: repository error: %v", err)
		return nil, fmt.Errorf("%w: ReservedTables - repository error: %v", domain.ErrPersistence, err)
	}

	return &models.ReservedTablesResponse{
		StartInstant: instant.UTC(),
		TableNumbers: tables,
	}, nil
}

// ListByDate возвращает бронирования даты сервиса во всех статусах вместе со статистикой
func (s *Service) ListByDate(ctx context.Context, date types.Date) (*models.DateReservationsResponse, error) {
	s.logger.Info("ListByDate: date=%s", date)

	list, stats, err := s.readDay(ctx, "ListByDate", date)
	if err != nil {
		return nil, err
	}
	domain.SortReservations(list)

	s.logger.Info("ListByDate: fetched %d reservations for date=%s", len(list), date)
	return &models.DateReservationsResponse{
		Date:         date.String(),
		Reservations: models.FromDomainReservationList(list),
		Stats:        models.FromDomainDayStats(stats),
	}, nil
}

// DayStats считает статистику даты сервиса: брони по статусам, гостей, загрузку столов
func (s *Service) DayStats(ctx context.Context, date types.Date) (*models.DayStatsResponse, error) {
	_, stats, err := s.readDay(ctx, "DayStats", date)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainDayStats(stats)
	return &resp, nil
}

// readDay читает брони и слоты даты одним снимком и считает статистику
func (s *Service) readDay(ctx context.Context, op string, date types.Date) ([]*domain.Reservation, domain.DayStats, error) {
	var (
		list  []*domain.Reservation
		stats domain.DayStats
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		list, err = s.reservationRepo.GetByServiceDate(txCtx, date)
		if err != nil {
			s.logger.Error("%s: repository error for date=%s: %v", op, date, err)
			return fmt.Errorf("%w: %s - repository error: %v", domain.ErrPersistence, op, err)
		}

		slots, err := s.slotRepo.GetByDate(txCtx, date)
		if err != nil {
			s.logger.Error("%s: failed to get slots for date=%s: %v", op, date, err)
			return fmt.Errorf("%w: %s - get slots: %v", domain.ErrPersistence, op, err)
		}

		stats = s.policy.ComputeDayStats(slots, list)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return nil, domain.DayStats{}, err
		}
		s.logger.Error("%s: read transaction failed for date=%s: %v", op, date, err)
		return nil, domain.DayStats{}, fmt.Errorf("%w: %s - transaction: %v", domain.ErrPersistence, op, err)
	}

	return list, stats, nil
}

// transition переводит бронирование из confirmed в терминальный статус.
// Условное обновление WHERE status='confirmed' не дает двум запросам перевести одно бронирование.
func (s *Service) transition(ctx context.Context, op string, bookingID string, to domain.ReservationStatus) (*models.StatusResponse, error) {
	bookingID = bookingid.Normalize(bookingID)
	s.logger.Info("%s: booking=%s", op, bookingID)

	var updated *domain.Reservation

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование (внутри транзакции строка блокируется)
		res, err := s.get(txCtx, op, bookingID)
		if err != nil {
			return err
		}

		// 2. Проверяем допустимость перехода
		if err := checkTransition(res, to); err != nil {
			s.logger.Warn("%s: booking=%s in status=%s: %v", op, bookingID, res.Status, err)
			return err
		}

		// 3. Условно меняем статус
		updated, err = s.reservationRepo.UpdateStatus(txCtx, bookingID, domain.StatusConfirmed, to)
		if errors.Is(err, reservationRepo.ErrStatusChanged) {
			return s.lostRace(txCtx, op, bookingID, to)
		}
		if err != nil {
			s.logger.Error("%s: failed to update status of booking=%s: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - update status: %v", domain.ErrPersistence, op, err)
		}

		// 4. Освобождаем столы
		if err := s.reservationRepo.ReleaseTables(txCtx, res.ID); err != nil {
			s.logger.Error("%s: failed to release tables of booking=%s: %v", op, bookingID, err)
			return fmt.Errorf("%w: %s - release tables: %v", domain.ErrPersistence, op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterTransition(ctx, updated)

	s.logger.Info("%s: booking=%s is now %s", op, bookingID, updated.Status)
	return &models.StatusResponse{
		BookingID: updated.BookingID,
		Status:    string(updated.Status),
	}, nil
}

// lostRace перечитывает бронирование после проигранного условного обновления
// и сообщает ошибку по фактическому статусу
func (s *Service) lostRace(ctx context.Context, op string, bookingID string, to domain.ReservationStatus) error {
	current, err := s.get(ctx, op, bookingID)
	if err != nil {
		return err
	}
	if err := checkTransition(current, to); err != nil {
		s.logger.Warn("%s: booking=%s changed concurrently to %s", op, bookingID, current.Status)
		return err
	}
	if to == domain.StatusCancelled {
		return domain.ErrAlreadyCancelled
	}
	return fmt.Errorf("%w: %s changed concurrently", domain.ErrInvalidTransition, bookingID)
}

func (s *Service) afterTransition(ctx context.Context, res *domain.Reservation) {
	if s.cache != nil {
		s.cache.InvalidateDate(ctx, res.ServiceDate)
	}
	if s.notifier != nil {
		s.notifier.Notify(eventbus.EventForStatus(res.Status), res)
	}
	if s.metrics != nil {
		switch res.Status {
		case domain.StatusCancelled:
			s.metrics.IncReservationCancelled()
		case domain.StatusNoShow:
			s.metrics.IncReservationNoShow()
		}
	}
}

func (s *Service) get(ctx context.Context, op string, bookingID string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: booking=%s not found", op, bookingID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for booking=%s: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", domain.ErrPersistence, op, err)
	}
	return res, nil
}

func checkTransition(res *domain.Reservation, to domain.ReservationStatus) error {
	if to == domain.StatusNoShow {
		return res.CheckNoShow()
	}
	return res.CheckCancel()
}
