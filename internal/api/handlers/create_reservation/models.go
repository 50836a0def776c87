package create_reservation

import (
	"time"

	createReservation "github.com/m04kA/TableBookingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	StartInstant    string  `json:"startInstant"` // RFC 3339, "2025-01-10T22:00:00Z"
	PartySize       int     `json:"partySize"`
	TableNumbers    []int   `json:"tableNumbers,omitempty"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	BookingID       string `json:"bookingId"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	StartInstant    string `json:"startInstant"`
	DurationMinutes int    `json:"durationMinutes"`
	PartySize       int    `json:"partySize"`
	TableNumbers    []int  `json:"tableNumbers,omitempty"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Пустой startInstant остается нулевым, его отклонит валидация use case.
func (r *CreateReservationRequest) ToUseCaseRequest() (*createReservation.Request, error) {
	var start time.Time
	if r.StartInstant != "" {
		parsed, err := time.Parse(time.RFC3339, r.StartInstant)
		if err != nil {
			return nil, err
		}
		start = parsed.UTC()
	}

	return &createReservation.Request{
		StartInstant:    start,
		PartySize:       r.PartySize,
		TableNumbers:    r.TableNumbers,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		SpecialRequests: r.SpecialRequests,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		BookingID:       resp.BookingID,
		Date:            resp.ServiceDate.String(),
		Time:            resp.SlotTime.String(),
		StartInstant:    resp.StartInstant.UTC().Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		PartySize:       resp.PartySize,
		TableNumbers:    resp.TableNumbers,
		Status:          resp.Status,
		CreatedAt:       resp.CreatedAt.UTC().Format(time.RFC3339),
	}
}
