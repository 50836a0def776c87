package list_slots

import (
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
)

// SlotResponse слот даты сервиса
type SlotResponse struct {
	Time            string    `json:"time"`
	StartInstant    time.Time `json:"startInstant"`
	DurationMinutes int       `json:"durationMinutes"`
	CapacityTables  int       `json:"capacityTables"`
	IsActive        bool      `json:"isActive"`
}

// SlotListResponse слоты даты сервиса
type SlotListResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует слот в DTO
func FromDomainSlot(s *domain.TimeSlot) SlotResponse {
	return SlotResponse{
		Time:            s.Time.String(),
		StartInstant:    s.StartInstant.UTC(),
		DurationMinutes: s.DurationMinutes,
		CapacityTables:  s.CapacityTables,
		IsActive:        s.IsActive,
	}
}

// FromDomainSlots конвертирует слоты даты
func FromDomainSlots(date string, slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{
		Date:  date,
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}
