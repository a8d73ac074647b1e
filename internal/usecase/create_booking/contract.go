package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockHost(ctx context.Context, hostID int64) error
	ListOverlapping(ctx context.Context, hostID int64, start, end time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.Host, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	LockHostShared(ctx context.Context, hostID int64) error
	List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error)
}

// Enricher побочные действия после фиксации бронирования (календарь, письма)
type Enricher interface {
	Enrich(ctx context.Context, host *domain.Host, booking *domain.Booking) *domain.EnrichmentResult
}

// KeyLocker внутрипроцессная блокировка по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncBookingsCreated()
	IncBookingConflicts()
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
