package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
)

// UseCase расчет доступности слотов даты для компании гостей
type UseCase struct {
	slotCatalog     SlotCatalog
	reservationRepo ReservationRepository
	cache           AvailabilityCache
	policy          *domain.VenuePolicy
	logger          Logger
}

// NewUseCase создает новый экземпляр use case. cache может быть nil.
func NewUseCase(
	slotCatalog SlotCatalog,
	reservationRepo ReservationRepository,
	cache AvailabilityCache,
	policy *domain.VenuePolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotCatalog:     slotCatalog,
		reservationRepo: reservationRepo,
		cache:           cache,
		policy:          policy,
		logger:          logger,
	}
}

// Execute возвращает слоты даты, в которых осталось хотя бы одно место, по возрастанию начала
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: date=%s, partySize=%d", req.Date, req.PartySize)

	// 1. Валидация входных данных
	date, err := validateRequest(req, uc.policy)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Нерабочий день: пустой список и пояснение, без записи в базу
	if !uc.policy.IsOperatingDay(date) {
		uc.logger.Info("GetAvailability: %s is not an operating day", date)
		return &Response{
			Date:           date.String(),
			PartySize:      req.PartySize,
			Message:        uc.policy.ClosedMessage(),
			AvailableSlots: []Slot{},
		}, nil
	}

	// 3. Кэш. Версия даты читается до запроса в базу.
	var version int64
	if uc.cache != nil {
		var cached Response
		var hit bool
		version, hit = uc.cache.Get(ctx, date, req.PartySize, &cached)
		if hit {
			return &cached, nil
		}
	}

	// 4. Слоты даты (создаются при первом обращении)
	slots, err := uc.slotCatalog.EnsureSlots(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to ensure slots for date=%s: %v", date, err)
		return nil, err
	}

	// 5. Подтвержденные бронирования, которые могут задеть слоты даты
	window := uc.policy.ReservationWindow(slots)
	reservations, err := uc.reservationRepo.GetConfirmedInRange(ctx, window.Start, window.End)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: GetAvailability - get reservations: %v", domain.ErrPersistence, err)
	}

	// 6. Доступность по каждому активному слоту
	resp := &Response{
		Date:           date.String(),
		PartySize:      req.PartySize,
		DayLabel:       uc.policy.DayLabel(date),
		AvailableSlots: make([]Slot, 0, len(slots)),
	}

	domain.SortSlots(slots)
	for _, slot := range slots {
		if !slot.IsActive {
			continue
		}
		availability := uc.policy.SlotAvailability(slot, req.PartySize, reservations)
		if availability.IsFull() {
			continue
		}
		resp.AvailableSlots = append(resp.AvailableSlots, toSlot(availability))
	}

	uc.logger.Info("GetAvailability: %d of %d slots available for date=%s, partySize=%d",
		len(resp.AvailableSlots), len(slots), date, req.PartySize)

	if uc.cache != nil {
		uc.cache.Set(ctx, date, req.PartySize, version, resp)
	}

	return resp, nil
}

func toSlot(a *domain.SlotAvailability) Slot {
	return Slot{
		Time:            a.Slot.Time.String(),
		StartInstant:    a.Slot.StartInstant.UTC(),
		DurationMinutes: a.Slot.DurationMinutes,
		CapacityTables:  a.Slot.CapacityTables,
		TablesReserved:  a.TablesReserved,
		AvailableCount:  a.AvailableCount,
		RequiredTables:  a.RequiredTables,
		CanAccommodate:  a.CanAccommodate,
		FreeTables:      a.FreeTables,
		SuitableTables:  a.SuitableTables,
		ServicePeriod:   a.ServicePeriod,
	}
}
