package create_reservation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/TableBookingService/internal/domain"
)

// validateRequest проверяет запрос в фиксированном порядке:
// обязательные поля, длины полей, размер компании, номера столов
func validateRequest(req *Request, policy *domain.VenuePolicy) error {
	if req.StartInstant.IsZero() {
		return fmt.Errorf("%w: startInstant is required", domain.ErrMissingField)
	}
	if req.PartySize == 0 {
		return fmt.Errorf("%w: partySize is required", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("%w: customerEmail is required", domain.ErrMissingField)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", domain.ErrMissingField)
	}

	if err := validateLength("customerName", req.CustomerName, domain.MaxCustomerNameLength); err != nil {
		return err
	}
	if err := validateLength("customerEmail", req.CustomerEmail, domain.MaxCustomerEmailLength); err != nil {
		return err
	}
	if err := validateLength("customerPhone", req.CustomerPhone, domain.MaxCustomerPhoneLength); err != nil {
		return err
	}
	if req.SpecialRequests != nil {
		if err := validateLength("specialRequests", *req.SpecialRequests, domain.MaxSpecialRequestsLength); err != nil {
			return err
		}
	}

	if err := policy.ValidatePartySize(req.PartySize); err != nil {
		return err
	}

	return policy.ValidateTableNumbers(req.TableNumbers, req.PartySize)
}

func validateLength(field, value string, max int) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", domain.ErrFieldTooLong, field, max)
	}
	return nil
}
