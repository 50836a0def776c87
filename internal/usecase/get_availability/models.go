package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	Date      string // Дата сервиса в формате YYYY-MM-DD
	PartySize int    // Количество гостей
}

// Response модель ответа со списком доступных слотов.
// Сериализуется в кэш, поэтому несет json теги.
type Response struct {
	Date           string `json:"date"`
	PartySize      int    `json:"partySize"`
	DayLabel       string `json:"dayLabel,omitempty"`
	Message        string `json:"message,omitempty"`
	AvailableSlots []Slot `json:"availableSlots"`
}

// Slot доступность одного слота
type Slot struct {
	Time            string    `json:"time"` // "22:00"
	StartInstant    time.Time `json:"startInstant"`
	DurationMinutes int       `json:"durationMinutes"`
	CapacityTables  int       `json:"capacityTables"`
	TablesReserved  int       `json:"tablesReserved"`
	AvailableCount  int       `json:"availableCount"`
	RequiredTables  int       `json:"requiredTables"`
	CanAccommodate  bool      `json:"canAccommodate"`
	FreeTables      []int     `json:"freeTables,omitempty"` // только в режиме адресации столов
	SuitableTables  int       `json:"suitableTables"`
	ServicePeriod   string    `json:"servicePeriod,omitempty"`
}
