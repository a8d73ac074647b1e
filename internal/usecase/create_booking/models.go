package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Username   string    // Публичное имя хоста
	GuestName  string    // Имя гостя
	GuestEmail string    // Email гостя
	StartAt    time.Time // Абсолютное время начала
	EndAt      time.Time // Абсолютное время окончания
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking    *domain.Booking
	Enrichment *domain.EnrichmentResult
}
