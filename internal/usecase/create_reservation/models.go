package create_reservation

import (
	"time"

	"github.com/m04kA/TableBookingService/pkg/types"
)

// Allocation modes (метка метрики)
const (
	modeCount    = "count"
	modeExplicit = "explicit"
	modeAuto     = "auto"
)

// Request модель запроса на создание бронирования
type Request struct {
	StartInstant    time.Time // Момент начала слота
	PartySize       int       // Количество гостей
	TableNumbers    []int     // Номера столов (опционально, только в режиме адресации столов)
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	SpecialRequests *string // Пожелания (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID       string           // Публичный идентификатор
	ServiceDate     types.Date       // Дата сервиса
	SlotTime        types.TimeString // Время слота
	StartInstant    time.Time        // Момент начала
	DurationMinutes int              // Длительность в минутах
	PartySize       int              // Количество гостей
	TableNumbers    []int            // Занятые столы (пусто в режиме счетчика)
	Status          string           // Статус бронирования
	CreatedAt       time.Time        // Время создания
}
