package feed

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListByHost(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error)
}

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Host, error)
	GetByUsername(ctx context.Context, username string) (*domain.Host, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
