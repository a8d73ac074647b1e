package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var validate = validator.New()

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return fmt.Errorf("%w: guestName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxGuestNameLength {
		return fmt.Errorf("%w: guestName must be at most %d characters", ErrInvalidInput, domain.MaxGuestNameLength)
	}

	email := strings.TrimSpace(req.GuestEmail)
	if email == "" {
		return fmt.Errorf("%w: guestEmail is required", ErrInvalidInput)
	}
	if len(email) > domain.MaxGuestEmailLength || validate.Var(email, "email") != nil {
		return fmt.Errorf("%w: guestEmail is malformed", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}
	if req.EndAt.IsZero() {
		return fmt.Errorf("%w: end is required", ErrInvalidInput)
	}
	if !req.StartAt.Before(req.EndAt) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidInput)
	}
	if !req.StartAt.After(now) {
		return fmt.Errorf("%w: start must be in the future", ErrInvalidInput)
	}

	return nil
}

// isWithinAvailability проверяет, что интервал целиком лежит в одном из слотов
// Слоты переводятся в абсолютное время на локальную дату начала бронирования
func isWithinAvailability(candidate domain.Interval, slots []*domain.AvailabilitySlot, loc *time.Location) bool {
	localStart := candidate.Start.In(loc)
	for _, slot := range slots {
		window, err := slot.Materialize(localStart, loc)
		if err != nil {
			continue
		}
		if window.Contains(candidate) {
			return true
		}
	}
	return false
}
