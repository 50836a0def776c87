package get_availability

import (
	"fmt"

	"github.com/m04kA/TableBookingService/internal/domain"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// validateRequest проверяет дату и размер компании
func validateRequest(req *Request, policy *domain.VenuePolicy) (types.Date, error) {
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
	}

	if err := policy.ValidatePartySize(req.PartySize); err != nil {
		return types.Date{}, err
	}

	return date, nil
}
