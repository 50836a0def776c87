package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	"github.com/m04kA/TableBookingService/internal/integrations/eventbus"
)

// UseCase use case размещения бронирования
type UseCase struct {
	slotRepo        SlotRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	idGenerator     IDGenerator
	policy          *domain.VenuePolicy
	cache           AvailabilityCache
	notifier        Notifier
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. cache, notifier и metrics могут быть nil.
func NewUseCase(
	slotRepo SlotRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	idGenerator IDGenerator,
	policy *domain.VenuePolicy,
	cache AvailabilityCache,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		idGenerator:     idGenerator,
		policy:          policy,
		cache:           cache,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute проверяет запрос и атомарно размещает бронирование.
// Строки слотов блокируются (FOR UPDATE), поэтому конкурирующие размещения на один
// слот выполняются по очереди и второе видит столы, занятые первым.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: start=%s, partySize=%d, tables=%v",
		req.StartInstant.UTC().Format(time.RFC3339), req.PartySize, req.TableNumbers)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.policy); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Reservation
	var mode string

	// 2. Проверка и запись в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем слот (и соседние слоты, если конфликтом считается пересечение)
		slot, err := uc.lockSlot(txCtx, req.StartInstant)
		if err != nil {
			return err
		}

		// 2.2. Перечитываем подтвержденные бронирования внутри транзакции
		window := uc.policy.ReservationWindow([]*domain.TimeSlot{slot})
		reservations, err := uc.reservationRepo.GetConfirmedInRange(txCtx, window.Start, window.End)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get reservations: %v", err)
			return fmt.Errorf("%w: CreateReservation - get reservations: %v", domain.ErrPersistence, err)
		}

		// 2.3. Проверяем вместимость и выбираем столы
		tables, allocMode, err := uc.allocate(slot, req, reservations)
		if err != nil {
			uc.logger.Warn("CreateReservation: allocation rejected for slot %s %s: %v", slot.Date, slot.Time, err)
			return err
		}
		mode = allocMode

		// 2.4. Генерируем идентификатор
		bookingID, err := uc.idGenerator.NewID()
		if err != nil {
			uc.logger.Error("CreateReservation: failed to generate booking id: %v", err)
			return fmt.Errorf("%w: CreateReservation - generate booking id: %v", domain.ErrPersistence, err)
		}

		// 2.5. Сохраняем бронирование и занятые столы
		res := &domain.Reservation{
			BookingID:       bookingID,
			ServiceDate:     slot.Date,
			SlotTime:        slot.Time,
			StartInstant:    slot.StartInstant,
			DurationMinutes: slot.DurationMinutes,
			PartySize:       req.PartySize,
			TableNumbers:    tables,
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			SpecialRequests: req.SpecialRequests,
			Status:          domain.StatusConfirmed,
		}
		res.Normalize()

		created, err := uc.reservationRepo.Create(txCtx, res)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrTableAlreadyClaimed) {
				uc.logger.Warn("CreateReservation: store rejected tables %v: %v", tables, err)
				return domain.NewConflictError(domain.ConflictTableReserved, tables)
			}
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: CreateReservation - create reservation: %v", domain.ErrPersistence, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && uc.metrics != nil {
			uc.metrics.IncAllocationConflict(domain.ConflictMetricReason(err))
		}
		return nil, err
	}

	// 3. После фиксации: кэш, событие, метрики
	if uc.cache != nil {
		uc.cache.InvalidateDate(ctx, result.ServiceDate)
	}
	if uc.notifier != nil {
		uc.notifier.Notify(eventbus.EventReservationConfirmed, result)
	}
	if uc.metrics != nil {
		uc.metrics.IncReservationCreated(mode)
	}

	uc.logger.Info("CreateReservation: created booking=%s, slot %s %s, tables=%v",
		result.BookingID, result.ServiceDate, result.SlotTime, result.TableNumbers)

	return &Response{
		BookingID:       result.BookingID,
		ServiceDate:     result.ServiceDate,
		SlotTime:        result.SlotTime,
		StartInstant:    result.StartInstant,
		DurationMinutes: result.DurationMinutes,
		PartySize:       result.PartySize,
		TableNumbers:    result.TableNumbers,
		Status:          string(result.Status),
		CreatedAt:       result.CreatedAt,
	}, nil
}

// lockSlot находит и блокирует слот, начинающийся в instant.
// В режиме пересечения блокируются все слоты, пересекающие интервал бронирования,
// одним запросом в порядке начала, чтобы соседние размещения не блокировали друг друга крест-накрест.
func (uc *UseCase) lockSlot(ctx context.Context, instant time.Time) (*domain.TimeSlot, error) {
	var slot *domain.TimeSlot

	if uc.policy.ConflictScope == domain.ScopeOverlap {
		interval := domain.NewInterval(instant, uc.policy.SlotDurationMinutes)
		locked, err := uc.slotRepo.GetOverlapping(ctx, interval)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to lock overlapping slots: %v", err)
			return nil, fmt.Errorf("%w: CreateReservation - lock slots: %v", domain.ErrPersistence, err)
		}
		for _, s := range locked {
			if s.StartInstant.Equal(instant) {
				slot = s
				break
			}
		}
		if slot == nil {
			uc.logger.Warn("CreateReservation: no slot starts at %s", instant.UTC().Format(time.RFC3339))
			return nil, ErrSlotNotFound
		}
	} else {
		s, err := uc.slotRepo.GetByStartInstant(ctx, instant)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateReservation: no slot starts at %s", instant.UTC().Format(time.RFC3339))
				return nil, ErrSlotNotFound
			}
			uc.logger.Error("CreateReservation: failed to lock slot: %v", err)
			return nil, fmt.Errorf("%w: CreateReservation - lock slot: %v", domain.ErrPersistence, err)
		}
		slot = s
	}

	if !slot.IsActive {
		uc.logger.Warn("CreateReservation: slot %s %s is inactive", slot.Date, slot.Time)
		return nil, ErrSlotInactive
	}

	return slot, nil
}

// allocate проверяет вместимость слота с учетом коэффициента сервисного периода
// и возвращает столы бронирования и метку режима размещения
func (uc *UseCase) allocate(slot *domain.TimeSlot, req *Request, reservations []*domain.Reservation) ([]int, string, error) {
	availability := uc.policy.SlotAvailability(slot, req.PartySize, reservations)

	if uc.policy.AddressingMode == domain.AddressingCount {
		if availability.RequiredTables > availability.AvailableCount {
			return nil, "", domain.NewConflictError(domain.ConflictInsufficientCapacity, nil)
		}
		return nil, modeCount, nil
	}

	if len(req.TableNumbers) > 0 {
		competing := uc.policy.Competing(slot.Interval(), reservations)
		if conflicts := domain.ConflictingTables(req.TableNumbers, slot.Interval(), competing); len(conflicts) > 0 {
			return nil, "", domain.NewConflictError(domain.ConflictTableReserved, conflicts)
		}
		if availability.RequiredTables > availability.AvailableCount {
			return nil, "", domain.NewConflictError(domain.ConflictInsufficientCapacity, nil)
		}
		tables := append([]int(nil), req.TableNumbers...)
		return tables, modeExplicit, nil
	}

	if availability.RequiredTables > availability.AvailableCount {
		return nil, "", domain.NewConflictError(domain.ConflictInsufficientCapacity, nil)
	}
	tables, ok := uc.policy.AssignTables(availability, req.PartySize)
	if !ok {
		return nil, "", domain.NewConflictError(domain.ConflictInsufficientCapacity, nil)
	}
	return tables, modeAuto, nil
}
