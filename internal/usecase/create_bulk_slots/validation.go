package create_bulk_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest валидирует запрос и возвращает нормализованные дни недели
func validateRequest(req *Request) ([]domain.Weekday, error) {
	if req.HostID <= 0 {
		return nil, fmt.Errorf("%w: hostID must be positive", ErrInvalidInput)
	}

	slotType := strings.TrimSpace(req.SlotType)
	if slotType == "" {
		return nil, fmt.Errorf("%w: slotType is required", ErrInvalidInput)
	}
	if len(slotType) > domain.MaxSlotTypeLength {
		return nil, fmt.Errorf("%w: slotType must be at most %d characters", ErrInvalidInput, domain.MaxSlotTypeLength)
	}

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: days are required", ErrInvalidInput)
	}

	days := make([]domain.Weekday, 0, len(req.Days))
	for _, d := range req.Days {
		day, err := domain.ParseWeekday(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		days = append(days, day)
	}

	if len(req.TimeRanges) == 0 {
		return nil, fmt.Errorf("%w: timeRanges are required", ErrInvalidInput)
	}
	if len(req.TimeRanges) > domain.MaxTimeRangesPerBulk {
		return nil, fmt.Errorf("%w: at most %d timeRanges allowed", ErrInvalidInput, domain.MaxTimeRangesPerBulk)
	}

	for i, r := range req.TimeRanges {
		if err := r.Start.Validate(); err != nil {
			return nil, fmt.Errorf("%w: timeRanges[%d].start: %v", ErrInvalidInput, i, err)
		}
		if err := r.End.ValidateEnd(); err != nil {
			return nil, fmt.Errorf("%w: timeRanges[%d].end: %v", ErrInvalidInput, i, err)
		}
		if !r.Start.IsBefore(r.End) {
			return nil, fmt.Errorf("%w: timeRanges[%d]: start must be before end", ErrInvalidInput, i)
		}
	}

	if req.IntervalMinutes < domain.MinSlotIntervalMinutes || req.IntervalMinutes > domain.MaxSlotIntervalMinutes {
		return nil, fmt.Errorf("%w: interval must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	return days, nil
}
