package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
	reservationRepo "github.com/m04kA/TableBookingService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/TableBookingService/internal/infra/storage/slot"
	"github.com/m04kA/TableBookingService/pkg/types"
)

type txKey struct{}

type slotKey struct {
	date string
	time int
}

type claimKey struct {
	instant int64
	table   int
}

// MemStore хранилище в памяти с семантикой репозиториев слотов и бронирований.
// Транзакции сериализуются, при ошибке состояние откатывается к снимку.
type MemStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	slots        map[slotKey]*domain.TimeSlot
	reservations []*domain.Reservation
	claims       map[claimKey]int64
	nextSlotID   int64
	nextResID    int64

	// SlotInsertLimit если > 0, InsertBatch вставляет не больше стольких слотов
	SlotInsertLimit int
	// SlotInsertErr возвращается из InsertBatch
	SlotInsertErr error
	// CreateErr возвращается из Create
	CreateErr error
	// TxCount число начатых транзакций
	TxCount int
}

// NewMemStore создает пустое хранилище
func NewMemStore() *MemStore {
	return &MemStore{
		slots:  make(map[slotKey]*domain.TimeSlot),
		claims: make(map[claimKey]int64),
	}
}

type memSnapshot struct {
	slots        map[slotKey]*domain.TimeSlot
	reservations []*domain.Reservation
	claims       map[claimKey]int64
	nextSlotID   int64
	nextResID    int64
}

func (s *MemStore) snapshot() memSnapshot {
	snap := memSnapshot{
		slots:        make(map[slotKey]*domain.TimeSlot, len(s.slots)),
		reservations: make([]*domain.Reservation, len(s.reservations)),
		claims:       make(map[claimKey]int64, len(s.claims)),
		nextSlotID:   s.nextSlotID,
		nextResID:    s.nextResID,
	}
	for k, v := range s.slots {
		snap.slots[k] = copySlot(v)
	}
	for i, r := range s.reservations {
		snap.reservations[i] = copyReservation(r)
	}
	for k, v := range s.claims {
		snap.claims[k] = v
	}
	return snap
}

func (s *MemStore) restore(snap memSnapshot) {
	s.slots = snap.slots
	s.reservations = snap.reservations
	s.claims = snap.claims
	s.nextSlotID = snap.nextSlotID
	s.nextResID = snap.nextResID
}

// Do выполняет fn в сериализованной транзакции
func (s *MemStore) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.TxCount++
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

// DoReadOnly то же, что Do
func (s *MemStore) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Do(ctx, fn)
}

// InsertBatch вставляет отсутствующие слоты
func (s *MemStore) InsertBatch(_ context.Context, slots []*domain.TimeSlot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SlotInsertErr != nil {
		return 0, s.SlotInsertErr
	}

	var inserted int64
	for i, slot := range slots {
		if s.SlotInsertLimit > 0 && i >= s.SlotInsertLimit {
			break
		}
		key := slotKey{date: slot.Date.String(), time: slot.Time.Minutes()}
		if _, ok := s.slots[key]; ok {
			continue
		}
		s.nextSlotID++
		stored := copySlot(slot)
		stored.ID = s.nextSlotID
		stored.StartInstant = stored.StartInstant.UTC()
		stored.CreatedAt = time.Now().UTC()
		stored.UpdatedAt = stored.CreatedAt
		s.slots[key] = stored
		inserted++
	}
	return inserted, nil
}

// GetByDate возвращает слоты даты по возрастанию начала
func (s *MemStore) GetByDate(_ context.Context, date types.Date) ([]*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.TimeSlot, 0)
	for _, slot := range s.slots {
		if slot.Date == date {
			result = append(result, copySlot(slot))
		}
	}
	domain.SortSlots(result)
	return result, nil
}

// GetByStartInstant возвращает слот по моменту начала
func (s *MemStore) GetByStartInstant(_ context.Context, instant time.Time) (*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		if slot.StartInstant.Equal(instant) {
			return copySlot(slot), nil
		}
	}
	return nil, slotRepo.ErrSlotNotFound
}

// GetOverlapping возвращает слоты, пересекающие интервал
func (s *MemStore) GetOverlapping(_ context.Context, interval domain.Interval) ([]*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.TimeSlot, 0)
	for _, slot := range s.slots {
		if domain.Overlaps(interval, slot.Interval()) {
			result = append(result, copySlot(slot))
		}
	}
	domain.SortSlots(result)
	return result, nil
}

// SetActive включает или выключает слот
func (s *MemStore) SetActive(_ context.Context, date types.Date, slotTime types.TimeString, active bool) (*domain.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[slotKey{date: date.String(), time: slotTime.Minutes()}]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	slot.IsActive = active
	slot.UpdatedAt = time.Now().UTC()
	return copySlot(slot), nil
}

// Create сохраняет бронирование и занимает его столы
func (s *MemStore) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	for _, r := range s.reservations {
		if r.BookingID == res.BookingID {
			return nil, reservationRepo.ErrDuplicateBookingID
		}
	}

	instant := res.StartInstant.UTC().Unix()
	for _, t := range res.TableNumbers {
		if _, taken := s.claims[claimKey{instant: instant, table: t}]; taken {
			return nil, fmt.Errorf("%w: table %d", reservationRepo.ErrTableAlreadyClaimed, t)
		}
	}

	s.nextResID++
	stored := copyReservation(res)
	stored.ID = s.nextResID
	stored.StartInstant = stored.StartInstant.UTC()
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.reservations = append(s.reservations, stored)

	for _, t := range res.TableNumbers {
		s.claims[claimKey{instant: instant, table: t}] = stored.ID
	}

	return copyReservation(stored), nil
}

// GetByBookingID возвращает бронирование по публичному идентификатору
func (s *MemStore) GetByBookingID(_ context.Context, bookingID string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reservations {
		if r.BookingID == bookingID {
			return copyReservation(r), nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

// GetConfirmedInRange возвращает подтвержденные бронирования с началом в [from, to)
func (s *MemStore) GetConfirmedInRange(_ context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.IsConfirmed() && !r.StartInstant.Before(from) && r.StartInstant.Before(to) {
			result = append(result, copyReservation(r))
		}
	}
	domain.SortReservations(result)
	return result, nil
}

// GetByServiceDate возвращает бронирования даты в любом статусе
func (s *MemStore) GetByServiceDate(_ context.Context, date types.Date) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.ServiceDate == date {
			result = append(result, copyReservation(r))
		}
	}
	domain.SortReservations(result)
	return result, nil
}

// ReservedTables возвращает занятые на момент столы
func (s *MemStore) ReservedTables(_ context.Context, instant time.Time) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := instant.UTC().Unix()
	tables := make([]int, 0)
	for k := range s.claims {
		if k.instant == key {
			tables = append(tables, k.table)
		}
	}
	sort.Ints(tables)
	return tables, nil
}

// UpdateStatus условно меняет статус бронирования
func (s *MemStore) UpdateStatus(_ context.Context, bookingID string, from, to domain.ReservationStatus) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reservations {
		if r.BookingID != bookingID || r.Status != from {
			continue
		}
		now := time.Now().UTC()
		r.Status = to
		r.UpdatedAt = now
		if to == domain.StatusCancelled {
			r.CancelledAt = &now
		}
		return copyReservation(r), nil
	}
	return nil, reservationRepo.ErrStatusChanged
}

// ReleaseTables освобождает столы бронирования
func (s *MemStore) ReleaseTables(_ context.Context, reservationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, id := range s.claims {
		if id == reservationID {
			delete(s.claims, k)
		}
	}
	return nil
}

// AddReservation кладет бронирование в хранилище как есть (для подготовки данных)
func (s *MemStore) AddReservation(res *domain.Reservation) *domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextResID++
	stored := copyReservation(res)
	stored.ID = s.nextResID
	s.reservations = append(s.reservations, stored)
	if stored.IsConfirmed() {
		for _, t := range stored.TableNumbers {
			s.claims[claimKey{instant: stored.StartInstant.UTC().Unix(), table: t}] = stored.ID
		}
	}
	return copyReservation(stored)
}

// ReservationCount число сохраненных бронирований
func (s *MemStore) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

// SlotCount число сохраненных слотов
func (s *MemStore) SlotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func copySlot(s *domain.TimeSlot) *domain.TimeSlot {
	c := *s
	return &c
}

func copyReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	c.TableNumbers = append([]int(nil), r.TableNumbers...)
	if r.SpecialRequests != nil {
		sr := *r.SpecialRequests
		c.SpecialRequests = &sr
	}
	if r.CancelledAt != nil {
		ca := *r.CancelledAt
		c.CancelledAt = &ca
	}
	return &c
}
