package enrichment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	AttachCalendarEvent(ctx context.Context, id int64, eventID string, meetLink *string) error
	MarkCalendarFailed(ctx context.Context, id int64) error
	MarkCalendarSkipped(ctx context.Context, id int64) error
	ClaimCalendarRetry(ctx context.Context, now time.Time, staleBefore time.Time, maxAttempts int, limit uint64) ([]*domain.Booking, error)
}

// HostRepository интерфейс репозитория хостов
type HostRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Host, error)
}

// CalendarClient клиент внешнего календаря
type CalendarClient interface {
	Enabled() bool
	CreateEvent(ctx context.Context, creds googlecalendar.Credentials, req googlecalendar.EventRequest) (*googlecalendar.Event, error)
}

// Mailer отправка писем
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, to, subject, body string) error
}

// Metrics счётчики ошибок обогащения
type Metrics interface {
	IncEnrichmentFailure(kind string)
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
