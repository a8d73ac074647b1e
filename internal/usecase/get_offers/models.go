package get_offers

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса доступных для бронирования слотов на дату
type Request struct {
	Username string    // Публичное имя хоста
	Date     time.Time // Календарная дата (время и зона игнорируются)
	SlotType *string   // Фильтр по типу слота (опционально)
}

// Response модель ответа
type Response struct {
	HostID   int64
	Date     string // YYYY-MM-DD
	Timezone string
	Offers   []domain.Offer
}
