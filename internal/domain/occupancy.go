package domain

import (
	"math"
	"sort"
)

// SlotAvailability считает остаток вместимости слота для компании.
// Учитываются только подтвержденные брони, конкурирующие со слотом.
func (p *VenuePolicy) SlotAvailability(slot *TimeSlot, partySize int, reservations []*Reservation) *SlotAvailability {
	competing := p.Competing(slot.Interval(), reservations)

	result := &SlotAvailability{
		Slot:           slot,
		RequiredTables: p.RequiredTables(partySize),
	}

	var claimed []int
	switch p.AddressingMode {
	case AddressingCount:
		result.TablesReserved = len(competing)
	default:
		claimed, result.TablesReserved = p.claimedTables(competing)
	}

	available := slot.CapacityTables - result.TablesReserved
	if available < 0 {
		available = 0
	}

	periodName, factor := p.FactorFor(slot.Time)
	result.ServicePeriod = periodName
	result.AvailableCount = ShapeAvailability(available, factor)

	if p.AddressingMode == AddressingTables {
		free := p.freeTables(claimed)
		result.FreeTables = TableIDs(free)
		result.SuitableTables = len(SuitableTables(free, partySize))
		result.CanAccommodate = result.AvailableCount >= result.RequiredTables && len(free) >= result.RequiredTables
	} else {
		result.SuitableTables = len(SuitableTables(p.Tables, partySize))
		result.CanAccommodate = result.AvailableCount >= result.RequiredTables
	}

	return result
}

// claimedTables возвращает занятые номера столов и число занятых столов.
// Бронь без номеров столов занимает столько столов, сколько ей требуется.
func (p *VenuePolicy) claimedTables(competing []*Reservation) ([]int, int) {
	set := make(map[int]struct{})
	unaddressed := 0
	for _, r := range competing {
		if len(r.TableNumbers) == 0 {
			unaddressed += RequiredTables(r.PartySize, p.PerTableCapacity)
			continue
		}
		for _, t := range r.TableNumbers {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set), len(set) + unaddressed
}

func (p *VenuePolicy) freeTables(claimed []int) []Table {
	taken := make(map[int]struct{}, len(claimed))
	for _, t := range claimed {
		taken[t] = struct{}{}
	}
	free := make([]Table, 0, len(p.Tables))
	for _, t := range p.Tables {
		if _, ok := taken[t.ID]; !ok {
			free = append(free, t)
		}
	}
	return free
}

// AssignTables выбирает столы из свободных столов слота.
// Компании на один стол достается лучший подходящий стол, иначе первые свободные по номеру.
func (p *VenuePolicy) AssignTables(availability *SlotAvailability, partySize int) ([]int, bool) {
	required := availability.RequiredTables
	if required == 0 || len(availability.FreeTables) < required {
		return nil, false
	}

	free := make([]Table, 0, len(availability.FreeTables))
	for _, id := range availability.FreeTables {
		if t, ok := p.Table(id); ok {
			free = append(free, t)
		}
	}

	if required == 1 {
		if suitable := SuitableTables(free, partySize); len(suitable) > 0 {
			return []int{suitable[0].ID}, true
		}
		// подходящего по размеру нет, берем наименьший вмещающий
		var best *Table
		for i := range free {
			t := free[i]
			if t.Capacity < partySize {
				continue
			}
			if best == nil || t.Capacity < best.Capacity {
				best = &free[i]
			}
		}
		if best != nil {
			return []int{best.ID}, true
		}
		return nil, false
	}

	ids := TableIDs(free)
	sort.Ints(ids)
	return ids[:required], true
}

// DayStats сводка броней даты сервиса
type DayStats struct {
	Total         int
	Confirmed     int
	Cancelled     int
	NoShow        int
	Guests        int // гости подтвержденных броней
	TablesClaimed int
	TableCapacity int
	OccupancyRate float64 // процент, округлен до десятых
}

// ComputeDayStats считает брони по статусам и загрузку активных слотов
func (p *VenuePolicy) ComputeDayStats(slots []*TimeSlot, reservations []*Reservation) DayStats {
	var stats DayStats
	for _, s := range slots {
		if s.IsActive {
			stats.TableCapacity += s.CapacityTables
		}
	}

	for _, r := range reservations {
		stats.Total++
		switch r.Status {
		case StatusConfirmed:
			stats.Confirmed++
			stats.Guests += r.PartySize
			if len(r.TableNumbers) > 0 {
				stats.TablesClaimed += len(r.TableNumbers)
			} else {
				stats.TablesClaimed += p.RequiredTables(r.PartySize)
			}
		case StatusCancelled:
			stats.Cancelled++
		case StatusNoShow:
			stats.NoShow++
		}
	}

	if stats.TableCapacity > 0 {
		rate := float64(stats.TablesClaimed) / float64(stats.TableCapacity) * 100
		stats.OccupancyRate = math.Round(rate*10) / 10
	}
	return stats
}
