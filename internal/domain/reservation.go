package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/TableBookingService/pkg/types"
)

// ReservationStatus статус бронирования
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "no-show"
)

// ParseReservationStatus разбирает строку статуса
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(s); st {
	case StatusConfirmed, StatusCancelled, StatusNoShow:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
}

// Reservation бронирование столов
type Reservation struct {
	ID              int64
	BookingID       string
	ServiceDate     types.Date       // дата сервиса (дата слота), а не календарная дата StartInstant
	SlotTime        types.TimeString // время слота по часам заведения
	StartInstant    time.Time
	DurationMinutes int
	PartySize       int
	TableNumbers    []int
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	SpecialRequests *string
	Status          ReservationStatus
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Normalize обрезает пробелы в полях клиента, приводит email к нижнему регистру и сортирует столы
func (r *Reservation) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.ToLower(strings.TrimSpace(r.CustomerEmail))
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	if r.SpecialRequests != nil {
		trimmed := strings.TrimSpace(*r.SpecialRequests)
		if trimmed == "" {
			r.SpecialRequests = nil
		} else {
			r.SpecialRequests = &trimmed
		}
	}
	sort.Ints(r.TableNumbers)
}

// Interval полуоткрытый интервал занятости брони
func (r *Reservation) Interval() Interval {
	return NewInterval(r.StartInstant, r.DurationMinutes)
}

// IsConfirmed возвращает true, если бронь занимает места
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// IsTerminal возвращает true для отмененных броней и неявок
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusNoShow
}

// CheckCancel возвращает nil, если бронь можно отменить
func (r *Reservation) CheckCancel() error {
	switch r.Status {
	case StatusConfirmed:
		return nil
	case StatusCancelled:
		return ErrAlreadyCancelled
	default:
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusCancelled)
	}
}

// CheckNoShow возвращает nil, если бронь можно отметить как неявку
func (r *Reservation) CheckNoShow() error {
	if r.Status == StatusConfirmed {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, StatusNoShow)
}

