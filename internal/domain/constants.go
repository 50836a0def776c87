package domain

// Значения политики заведения по умолчанию
const (
	DefaultPerTableCapacity    = 4
	DefaultCapacityTables      = 10
	DefaultSlotDurationMinutes = 90
	DefaultTableLocation       = "Main Floor"
	DefaultLocation            = "UTC"
)

// Константы бизнес-валидации
const (
	MinSlotDurationMinutes   = 15
	MaxSlotDurationMinutes   = 480 // 8 часов, верхняя граница длительности любой брони
	MaxCustomerNameLength    = 100
	MaxCustomerEmailLength   = 254
	MaxCustomerPhoneLength   = 32
	MaxSpecialRequestsLength = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultSlotTimes стандартная сетка слотов: вечер пятницы/субботы, 00:00 относится к концу вечера
var DefaultSlotTimes = []string{"22:00", "23:30", "00:00"}
