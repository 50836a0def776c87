package domain

import (
	"fmt"
	"math"

	"github.com/m04kA/TableBookingService/pkg/types"
)

// ServicePeriod масштабирует доступность слотов, начинающихся в [Start, End).
// Период со Start позже End переходит через полночь.
type ServicePeriod struct {
	Name   string
	Start  types.TimeString
	End    types.TimeString
	Factor float64
}

// Contains сообщает, попадает ли время в период
func (p ServicePeriod) Contains(t types.TimeString) bool {
	if p.Start.IsBefore(p.End) {
		return !t.IsBefore(p.Start) && t.IsBefore(p.End)
	}
	return !t.IsBefore(p.Start) || t.IsBefore(p.End)
}

// Validate проверяет границы и коэффициент периода
func (p ServicePeriod) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: service period name is empty", ErrInvalidPolicy)
	}
	if p.Start.IsZero() || p.End.IsZero() || p.Start.Equal(p.End) {
		return fmt.Errorf("%w: service period %q has invalid bounds", ErrInvalidPolicy, p.Name)
	}
	if p.Factor <= 0 || p.Factor > 1 {
		return fmt.Errorf("%w: service period %q factor must be in (0, 1]", ErrInvalidPolicy, p.Name)
	}
	return nil
}

// PeriodFor возвращает первый период, содержащий t
func PeriodFor(periods []ServicePeriod, t types.TimeString) (ServicePeriod, bool) {
	for _, p := range periods {
		if p.Contains(t) {
			return p, true
		}
	}
	return ServicePeriod{}, false
}

// ShapeAvailability применяет коэффициент периода: floor(available * factor).
// Результат не больше available.
func ShapeAvailability(available int, factor float64) int {
	if available <= 0 {
		return 0
	}
	if factor <= 0 || factor >= 1 {
		return available
	}
	return int(math.Floor(float64(available) * factor))
}
