package create_bulk_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на массовую публикацию слотов
type Request struct {
	HostID          int64
	Days            []string    // Названия дней недели ("Monday", ...)
	TimeRanges      []TimeRange // Диапазоны времени, нарезаемые на слоты
	IntervalMinutes int         // Длительность одного слота
	SlotType        string      // Тип слота, все его прежние слоты заменяются
}

// TimeRange диапазон времени суток
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Response модель ответа
type Response struct {
	CreatedCount int
	Slots        []*domain.AvailabilitySlot
}
