package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/TableBookingService/pkg/types"
)

// ErrInvalidPolicy конфигурация заведения противоречива
var ErrInvalidPolicy = errors.New("invalid venue policy")

// AddressingMode способ, которым бронь занимает вместимость
type AddressingMode string

const (
	// AddressingCount каждая бронь берет один стол из счетчика слота
	AddressingCount AddressingMode = "count"
	// AddressingTables бронь занимает конкретные номера столов
	AddressingTables AddressingMode = "tables"
)

// ConflictScope какие брони конкурируют со слотом
type ConflictScope string

const (
	// ScopeExactSlot только брони с тем же временем начала
	ScopeExactSlot ConflictScope = "exact_slot"
	// ScopeOverlap любая бронь с пересекающимся интервалом
	ScopeOverlap ConflictScope = "overlap"
)

// VenuePolicy единая конфигурация движка бронирования
type VenuePolicy struct {
	AddressingMode      AddressingMode
	ConflictScope       ConflictScope
	MaxPartySize        int
	PerTableCapacity    int
	CapacityTables      int
	SlotDurationMinutes int
	SlotTimes           []types.TimeString
	OperatingDays       []time.Weekday
	Location            *time.Location
	Tables              []Table
	ServicePeriods      []ServicePeriod
}

// DefaultVenuePolicy поздний вечер пятницы и субботы, десять столов на четверых
func DefaultVenuePolicy() VenuePolicy {
	slotTimes := make([]types.TimeString, len(DefaultSlotTimes))
	for i, s := range DefaultSlotTimes {
		slotTimes[i] = types.MustTimeString(s)
	}

	return VenuePolicy{
		AddressingMode:      AddressingTables,
		ConflictScope:       ScopeOverlap,
		MaxPartySize:        DefaultCapacityTables * DefaultPerTableCapacity,
		PerTableCapacity:    DefaultPerTableCapacity,
		CapacityTables:      DefaultCapacityTables,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		SlotTimes:           slotTimes,
		OperatingDays:       []time.Weekday{time.Friday, time.Saturday},
		Location:            time.UTC,
		Tables:              DefaultTables(DefaultCapacityTables, DefaultPerTableCapacity, DefaultTableLocation),
	}
}

// Validate проверяет согласованность политики. Ошибка останавливает запуск.
func (p *VenuePolicy) Validate() error {
	switch p.AddressingMode {
	case AddressingCount, AddressingTables:
	default:
		return fmt.Errorf("%w: unknown addressing mode %q", ErrInvalidPolicy, p.AddressingMode)
	}

	switch p.ConflictScope {
	case ScopeExactSlot, ScopeOverlap:
	default:
		return fmt.Errorf("%w: unknown conflict scope %q", ErrInvalidPolicy, p.ConflictScope)
	}

	if p.PerTableCapacity <= 0 {
		return fmt.Errorf("%w: per-table capacity must be positive", ErrInvalidPolicy)
	}
	if p.CapacityTables <= 0 {
		return fmt.Errorf("%w: capacity tables must be positive", ErrInvalidPolicy)
	}
	if p.SlotDurationMinutes < MinSlotDurationMinutes || p.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidPolicy, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if p.Location == nil {
		return fmt.Errorf("%w: location is not set", ErrInvalidPolicy)
	}
	if len(p.OperatingDays) == 0 {
		return fmt.Errorf("%w: no operating days", ErrInvalidPolicy)
	}

	if len(p.SlotTimes) == 0 {
		return fmt.Errorf("%w: no slot times", ErrInvalidPolicy)
	}
	seenTimes := make(map[int]struct{}, len(p.SlotTimes))
	for _, ts := range p.SlotTimes {
		if err := ts.Validate(); err != nil {
			return fmt.Errorf("%w: slot time: %v", ErrInvalidPolicy, err)
		}
		if _, dup := seenTimes[ts.Minutes()]; dup {
			return fmt.Errorf("%w: duplicate slot time %s", ErrInvalidPolicy, ts)
		}
		seenTimes[ts.Minutes()] = struct{}{}
	}

	if p.MaxPartySize < 1 {
		return fmt.Errorf("%w: max party size must be at least 1", ErrInvalidPolicy)
	}

	switch p.AddressingMode {
	case AddressingCount:
		// в режиме счетчика бронь занимает ровно один стол
		if p.MaxPartySize > p.PerTableCapacity {
			return fmt.Errorf("%w: count mode allows at most %d guests, got max party size %d",
				ErrInvalidPolicy, p.PerTableCapacity, p.MaxPartySize)
		}
	case AddressingTables:
		if RequiredTables(p.MaxPartySize, p.PerTableCapacity) > p.CapacityTables {
			return fmt.Errorf("%w: max party size %d needs more than %d tables",
				ErrInvalidPolicy, p.MaxPartySize, p.CapacityTables)
		}
		if len(p.Tables) < p.CapacityTables {
			return fmt.Errorf("%w: %d tables configured, capacity is %d",
				ErrInvalidPolicy, len(p.Tables), p.CapacityTables)
		}
	}

	seenTables := make(map[int]struct{}, len(p.Tables))
	for _, t := range p.Tables {
		if t.ID <= 0 || t.Capacity <= 0 {
			return fmt.Errorf("%w: table %d has invalid id or capacity", ErrInvalidPolicy, t.ID)
		}
		if _, dup := seenTables[t.ID]; dup {
			return fmt.Errorf("%w: duplicate table %d", ErrInvalidPolicy, t.ID)
		}
		seenTables[t.ID] = struct{}{}
	}

	for _, sp := range p.ServicePeriods {
		if err := sp.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// IsOperatingDay сообщает, принимаются ли брони на дату
func (p *VenuePolicy) IsOperatingDay(d types.Date) bool {
	wd := d.Weekday()
	for _, od := range p.OperatingDays {
		if od == wd {
			return true
		}
	}
	return false
}

// ClosedMessage поясняет, в какие дни доступны брони, например "Reservations are only available on Fridays and Saturdays"
func (p *VenuePolicy) ClosedMessage() string {
	names := make([]string, len(p.OperatingDays))
	for i, d := range p.OperatingDays {
		names[i] = d.String() + "s"
	}

	var days string
	switch len(names) {
	case 0:
		return "Reservations are not available"
	case 1:
		days = names[0]
	default:
		days = strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
	return "Reservations are only available on " + days
}

// DayLabel название дня недели для рабочей даты, иначе пустая строка
func (p *VenuePolicy) DayLabel(d types.Date) string {
	if !p.IsOperatingDay(d) {
		return ""
	}
	return d.Weekday().String()
}

// BuildSlots возвращает слоты даты сервиса. Время раньше предыдущего в SlotTimes
// переносится на следующий календарный день.
func (p *VenuePolicy) BuildSlots(d types.Date) []*TimeSlot {
	slots := make([]*TimeSlot, 0, len(p.SlotTimes))
	offset := 0
	for i, ts := range p.SlotTimes {
		if i > 0 && ts.IsBefore(p.SlotTimes[i-1]) {
			offset++
		}
		slots = append(slots, &TimeSlot{
			Date:            d,
			Time:            ts,
			StartInstant:    d.AddDays(offset).At(ts, p.Location).UTC(),
			CapacityTables:  p.CapacityTables,
			DurationMinutes: p.SlotDurationMinutes,
			IsActive:        true,
		})
	}
	return slots
}

// RequiredTables число столов, нужное компании по этой политике
func (p *VenuePolicy) RequiredTables(partySize int) int {
	if p.AddressingMode == AddressingCount {
		return 1
	}
	return RequiredTables(partySize, p.PerTableCapacity)
}

// ValidatePartySize проверяет 1 <= partySize <= MaxPartySize
func (p *VenuePolicy) ValidatePartySize(partySize int) error {
	if partySize < 1 || partySize > p.MaxPartySize {
		return fmt.Errorf("%w: must be between 1 and %d, got %d", ErrPartySize, p.MaxPartySize, partySize)
	}
	return nil
}

// Table ищет стол по номеру
func (p *VenuePolicy) Table(id int) (Table, bool) {
	for _, t := range p.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return Table{}, false
}

// ValidateTableNumbers проверяет явно указанные номера столов
func (p *VenuePolicy) ValidateTableNumbers(tables []int, partySize int) error {
	if len(tables) == 0 {
		return nil
	}
	if p.AddressingMode == AddressingCount {
		return fmt.Errorf("%w: table numbers are not accepted in count mode", ErrInvalidTable)
	}

	seen := make(map[int]struct{}, len(tables))
	for _, id := range tables {
		if _, ok := p.Table(id); !ok {
			return fmt.Errorf("%w: table %d does not exist", ErrInvalidTable, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: table %d listed twice", ErrInvalidTable, id)
		}
		seen[id] = struct{}{}
	}

	if required := p.RequiredTables(partySize); len(tables) != required {
		return fmt.Errorf("%w: party of %d needs %d tables, got %d",
			ErrTableCountMismatch, partySize, required, len(tables))
	}
	return nil
}

// Competing возвращает подтвержденные брони, конкурирующие с интервалом
func (p *VenuePolicy) Competing(interval Interval, reservations []*Reservation) []*Reservation {
	result := make([]*Reservation, 0)
	for _, r := range reservations {
		if !r.IsConfirmed() {
			continue
		}
		switch p.ConflictScope {
		case ScopeExactSlot:
			if r.StartInstant.Equal(interval.Start) {
				result = append(result, r)
			}
		default:
			if Overlaps(interval, r.Interval()) {
				result = append(result, r)
			}
		}
	}
	return result
}

// ReservationWindow покрывает все брони, которые могут задеть слоты:
// [firstStart - MaxSlotDurationMinutes, lastEnd). Отступ назад равен верхней границе
// длительности брони, а не текущей настройке слотов.
func (p *VenuePolicy) ReservationWindow(slots []*TimeSlot) Interval {
	if len(slots) == 0 {
		return Interval{}
	}

	first, last := slots[0], slots[0]
	for _, s := range slots[1:] {
		if s.StartInstant.Before(first.StartInstant) {
			first = s
		}
		if s.Interval().End.After(last.Interval().End) {
			last = s
		}
	}

	return Interval{
		Start: first.StartInstant.Add(-time.Duration(MaxSlotDurationMinutes) * time.Minute),
		End:   last.Interval().End,
	}
}

// FactorFor имя сервисного периода и коэффициент для времени. Без периода коэффициент 1.0.
func (p *VenuePolicy) FactorFor(t types.TimeString) (string, float64) {
	if period, ok := PeriodFor(p.ServicePeriods, t); ok {
		return period.Name, period.Factor
	}
	return "", 1.0
}
