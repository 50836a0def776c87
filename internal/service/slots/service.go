package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// Service каталог временных слотов
type Service struct {
	slotRepo SlotRepository
	policy   *domain.VenuePolicy
	cache    AvailabilityCache
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр каталога слотов. cache и metrics могут быть nil.
func NewService(
	slotRepo SlotRepository,
	policy *domain.VenuePolicy,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		slotRepo: slotRepo,
		policy:   policy,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}
}

// EnsureSlots возвращает слоты даты сервиса, создавая недостающие.
// Для нерабочего дня возвращает пустой список без записи в базу.
// Одновременные первые вызовы получают один и тот же набор: вставка идет с ON CONFLICT DO NOTHING.
func (s *Service) EnsureSlots(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error) {
	if !s.policy.IsOperatingDay(date) {
		return []*domain.TimeSlot{}, nil
	}

	expected := len(s.policy.SlotTimes)

	existing, err := s.slotRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("EnsureSlots: failed to get slots for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: EnsureSlots - get slots: %v", domain.ErrPersistence, err)
	}
	if len(existing) >= expected {
		return existing, nil
	}

	inserted, err := s.slotRepo.InsertBatch(ctx, s.policy.BuildSlots(date))
	if err != nil {
		s.logger.Error("EnsureSlots: failed to insert slots for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: EnsureSlots - insert slots: %v", domain.ErrPersistence, err)
	}
	if inserted > 0 {
		s.logger.Info("EnsureSlots: seeded %d slots for date=%s", inserted, date)
		if s.metrics != nil {
			s.metrics.AddSlotsSeeded(int(inserted))
		}
	}

	slots, err := s.slotRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("EnsureSlots: failed to re-read slots for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: EnsureSlots - re-read slots: %v", domain.ErrPersistence, err)
	}

	if len(slots) < expected {
		// требуется ручная сверка: повторный вызов попробует дописать недостающие
		s.logger.Error("EnsureSlots: partial slot set for date=%s: %d of %d", date, len(slots), expected)
		return nil, fmt.Errorf("%w: date=%s has %d of %d slots", ErrPartialSlotSet, date, len(slots), expected)
	}

	return slots, nil
}

// ListSlots возвращает все слоты даты, включая выключенные
func (s *Service) ListSlots(ctx context.Context, date types.Date) ([]*domain.TimeSlot, error) {
	s.logger.Info("ListSlots: date=%s", date)
	return s.EnsureSlots(ctx, date)
}

// SetSlotActive включает или выключает слот даты и сбрасывает кэш доступности даты
func (s *Service) SetSlotActive(ctx context.Context, date types.Date, slotTime types.TimeString, active bool) (*domain.TimeSlot, error) {
	s.logger.Info("SetSlotActive: date=%s, time=%s, active=%t", date, slotTime, active)

	if _, err := s.EnsureSlots(ctx, date); err != nil {
		return nil, err
	}

	slot, err := s.slotRepo.SetActive(ctx, date, slotTime, active)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("SetSlotActive: slot %s %s not found", date, slotTime)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetSlotActive: repository error for %s %s: %v", date, slotTime, err)
		return nil, fmt.Errorf("%w: SetSlotActive - repository error: %v", domain.ErrPersistence, err)
	}

	if s.cache != nil {
		s.cache.InvalidateDate(ctx, date)
	}

	return slot, nil
}
