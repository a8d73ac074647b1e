package get_offers

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.SlotType != nil && strings.TrimSpace(*req.SlotType) == "" {
		return fmt.Errorf("%w: slotType must not be blank", ErrInvalidInput)
	}

	return nil
}
