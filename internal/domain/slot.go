package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilitySlot еженедельное окно, доступное для бронирования
type AvailabilitySlot struct {
	ID              int64
	HostID          int64
	DayOfWeek       Weekday
	StartTime       types.TimeString
	EndTime         types.TimeString
	SlotType        string
	Name            string // slug типа слота, используется в ссылке на бронирование
	SlotID          string
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Window возвращает окно слота в пределах суток
func (s *AvailabilitySlot) Window() Window {
	return Window{Start: s.StartTime, End: s.EndTime}
}

// Materialize переводит слот в абсолютный интервал на дату date в локации loc
// Дата берётся как календарная, без перевода через UTC
func (s *AvailabilitySlot) Materialize(date time.Time, loc *time.Location) (Interval, error) {
	start, err := s.StartTime.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	end, err := s.EndTime.On(date, loc)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// Window отрезок времени суток [Start, End)
type Window struct {
	Start types.TimeString
	End   types.TimeString
}

// SlotGroup слоты одного типа
type SlotGroup struct {
	SlotType string
	Name     string
	Slots    []AvailabilitySlot
}

// GroupByType группирует слоты по типу
// Порядок групп - порядок первого появления типа, внутри группы сохраняется исходный порядок
func GroupByType(slots []AvailabilitySlot) []SlotGroup {
	index := make(map[string]int)
	groups := make([]SlotGroup, 0)

	for _, slot := range slots {
		i, ok := index[slot.SlotType]
		if !ok {
			i = len(groups)
			index[slot.SlotType] = i
			groups = append(groups, SlotGroup{SlotType: slot.SlotType, Name: slot.Name})
		}
		groups[i].Slots = append(groups[i].Slots, slot)
	}

	return groups
}

// Offer слот, доступный для бронирования на конкретную дату
type Offer struct {
	SlotID          string
	SlotType        string
	StartTime       types.TimeString
	EndTime         types.TimeString
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
}
