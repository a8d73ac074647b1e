package create_bulk_slots

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	LockHost(ctx context.Context, hostID int64) error
	List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error)
	DeleteByType(ctx context.Context, hostID int64, slotType string) (int64, error)
	CreateBatch(ctx context.Context, slots []*domain.AvailabilitySlot) ([]*domain.AvailabilitySlot, error)
}

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Host, error)
}

// SlotIDGenerator генератор публичных идентификаторов слотов
type SlotIDGenerator interface {
	New(slotType string, day string, start, end string) string
}

// KeyLocker внутрипроцессная блокировка по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики публикации слотов
type Metrics interface {
	AddSlotsPublished(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
