package get_availability

import (
	"strconv"
	"strings"

	getAvailability "github.com/m04kA/TableBookingService/internal/usecase/get_availability"
)

// ToUseCaseRequest создает запрос use case из query параметров.
// Формат даты проверяет use case.
func ToUseCaseRequest(dateStr, partySizeStr string) (*getAvailability.Request, error) {
	partySize, err := strconv.Atoi(strings.TrimSpace(partySizeStr))
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		Date:      strings.TrimSpace(dateStr),
		PartySize: partySize,
	}, nil
}
