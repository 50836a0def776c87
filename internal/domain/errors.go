package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation базовый вид ошибок некорректного ввода
	ErrValidation = errors.New("validation error")

	// ErrNotFound неизвестный идентификатор брони или дата
	ErrNotFound = errors.New("not found")

	// ErrConflict не хватает мест или стол уже занят
	ErrConflict = errors.New("conflict")

	// ErrAlreadyCancelled бронь уже отменена
	ErrAlreadyCancelled = errors.New("reservation already cancelled")

	// ErrInvalidTransition переход статуса недопустим из текущего состояния
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPersistence хранилище недоступно или транзакция не удалась
	ErrPersistence = errors.New("persistence error")
)

// Виды ошибок валидации, каждая оборачивает ErrValidation
var (
	ErrMissingField       = fmt.Errorf("%w: missing field", ErrValidation)
	ErrPartySize          = fmt.Errorf("%w: party size", ErrValidation)
	ErrTableCountMismatch = fmt.Errorf("%w: table count mismatch", ErrValidation)
	ErrInvalidTable       = fmt.Errorf("%w: invalid table", ErrValidation)
	ErrInvalidSlot        = fmt.Errorf("%w: invalid slot", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrFieldTooLong       = fmt.Errorf("%w: field too long", ErrValidation)
)

// Причины конфликта
const (
	ConflictTableReserved        = "table already reserved"
	ConflictInsufficientCapacity = "insufficient capacity"
)

// ConflictError отказ в размещении со списком конфликтующих столов
type ConflictError struct {
	Reason string
	Tables []int
}

// NewConflictError копирует и сортирует номера столов
func NewConflictError(reason string, tables []int) *ConflictError {
	sorted := append([]int(nil), tables...)
	sort.Ints(sorted)
	return &ConflictError{Reason: reason, Tables: sorted}
}

func (e *ConflictError) Error() string {
	if len(e.Tables) == 0 {
		return fmt.Sprintf("conflict: %s", e.Reason)
	}
	parts := make([]string, len(e.Tables))
	for i, t := range e.Tables {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf("conflict: %s (tables %s)", e.Reason, strings.Join(parts, ","))
}

// Unwrap позволяет проверять errors.Is(err, ErrConflict)
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ConflictMetricReason метка причины конфликта для метрик
func ConflictMetricReason(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		switch ce.Reason {
		case ConflictTableReserved:
			return "table_reserved"
		case ConflictInsufficientCapacity:
			return "insufficient_capacity"
		}
	}
	return "other"
}
