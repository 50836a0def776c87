package eventbus

import (
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
)

// EventType тип события бронирования
type EventType string

const (
	EventReservationConfirmed EventType = "reservation.confirmed"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationNoShow    EventType = "reservation.no_show"
)

// Event событие жизненного цикла бронирования
type Event struct {
	Type            EventType `json:"type"`
	BookingID       string    `json:"bookingId"`
	ServiceDate     string    `json:"serviceDate"`
	SlotTime        string    `json:"slotTime"`
	StartInstant    time.Time `json:"startInstant"`
	DurationMinutes int       `json:"durationMinutes"`
	PartySize       int       `json:"partySize"`
	TableNumbers    []int     `json:"tableNumbers,omitempty"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// NewReservationEvent собирает событие из бронирования
func NewReservationEvent(eventType EventType, res *domain.Reservation, occurredAt time.Time) Event {
	return Event{
		Type:            eventType,
		BookingID:       res.BookingID,
		ServiceDate:     res.ServiceDate.String(),
		SlotTime:        res.SlotTime.String(),
		StartInstant:    res.StartInstant.UTC(),
		DurationMinutes: res.DurationMinutes,
		PartySize:       res.PartySize,
		TableNumbers:    res.TableNumbers,
		Status:          string(res.Status),
		OccurredAt:      occurredAt.UTC(),
	}
}

// EventForStatus возвращает тип события для нового статуса бронирования
func EventForStatus(status domain.ReservationStatus) EventType {
	switch status {
	case domain.StatusCancelled:
		return EventReservationCancelled
	case domain.StatusNoShow:
		return EventReservationNoShow
	default:
		return EventReservationConfirmed
	}
}
