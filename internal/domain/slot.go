package domain

import (
	"time"

	"github.com/m04kA/TableBookingService/pkg/types"
)

// TimeSlot время начала брони в дату сервиса
type TimeSlot struct {
	ID              int64
	Date            types.Date
	Time            types.TimeString
	StartInstant    time.Time
	CapacityTables  int
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Interval полуоткрытый интервал слота
func (s *TimeSlot) Interval() Interval {
	return NewInterval(s.StartInstant, s.DurationMinutes)
}

// SlotAvailability остаток вместимости слота для компании гостей
type SlotAvailability struct {
	Slot           *TimeSlot
	TablesReserved int
	AvailableCount int
	RequiredTables int
	CanAccommodate bool
	FreeTables     []int // только в режиме адресации столов
	SuitableTables int
	ServicePeriod  string
}

// IsFull возвращает true, если свободных столов нет
func (s *SlotAvailability) IsFull() bool {
	return s.AvailableCount <= 0
}

// SortSlots сортирует слоты по времени начала
func SortSlots(slots []*TimeSlot) {
	sortByInstant(slots, func(s *TimeSlot) time.Time { return s.StartInstant })
}
