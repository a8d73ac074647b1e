package availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	LockHost(ctx context.Context, hostID int64) error
	List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error)
	FindByWindow(ctx context.Context, hostID int64, day domain.Weekday, start, end types.TimeString) (*domain.AvailabilitySlot, error)
	Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	UpdateType(ctx context.Context, id int64, slotType, name string) (*domain.AvailabilitySlot, error)
	DeleteByType(ctx context.Context, hostID int64, slotType string) (int64, error)
	DeleteByDay(ctx context.Context, hostID int64, day domain.Weekday) (int64, error)
	DeleteBySlotID(ctx context.Context, hostID int64, slotID string) (int64, error)
}

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Host, error)
	GetByUsername(ctx context.Context, username string) (*domain.Host, error)
}

// SlotIDGenerator генератор идентификаторов слотов
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
