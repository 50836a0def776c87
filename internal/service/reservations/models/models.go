package models

import (
	"time"

	"github.com/m04kA/TableBookingService/internal/domain"
)

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	BookingID       string    `json:"bookingId"`
	Date            string    `json:"date"` // дата сервиса "2025-01-10"
	Time            string    `json:"time"` // "22:00"
	StartInstant    time.Time `json:"startInstant"`
	DurationMinutes int       `json:"durationMinutes"`
	PartySize       int       `json:"partySize"`
	TableNumbers    []int     `json:"tableNumbers,omitempty"`
	Status          string    `json:"status"`

	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	SpecialRequests *string `json:"specialRequests,omitempty"`

	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatusResponse ответ на смену статуса
type StatusResponse struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// ReservedTablesResponse занятые столы на момент начала
type ReservedTablesResponse struct {
	StartInstant time.Time `json:"startInstant"`
	TableNumbers []int     `json:"tableNumbers"`
}

// DayStatsResponse статистика даты сервиса
type DayStatsResponse struct {
	Total         int     `json:"total"`
	Confirmed     int     `json:"confirmed"`
	Cancelled     int     `json:"cancelled"`
	NoShow        int     `json:"noShow"`
	Guests        int     `json:"guests"`
	TablesClaimed int     `json:"tablesClaimed"`
	TableCapacity int     `json:"tableCapacity"`
	OccupancyRate float64 `json:"occupancyRate"`
}

// DateReservationsResponse бронирования даты сервиса со статистикой
type DateReservationsResponse struct {
	Date         string                `json:"date"`
	Reservations []ReservationResponse `json:"reservations"`
	Stats        DayStatsResponse      `json:"stats"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		BookingID:       r.BookingID,
		Date:            r.ServiceDate.String(),
		Time:            r.SlotTime.String(),
		StartInstant:    r.StartInstant.UTC(),
		DurationMinutes: r.DurationMinutes,
		PartySize:       r.PartySize,
		TableNumbers:    r.TableNumbers,
		Status:          string(r.Status),
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		SpecialRequests: r.SpecialRequests,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		if dto := FromDomainReservation(r); dto != nil {
			resp = append(resp, *dto)
		}
	}
	return resp
}

// FromDomainDayStats конвертирует статистику даты
func FromDomainDayStats(s domain.DayStats) DayStatsResponse {
	return DayStatsResponse{
		Total:         s.Total,
		Confirmed:     s.Confirmed,
		Cancelled:     s.Cancelled,
		NoShow:        s.NoShow,
		Guests:        s.Guests,
		TablesClaimed: s.TablesClaimed,
		TableCapacity: s.TableCapacity,
		OccupancyRate: s.OccupancyRate,
	}
}
