package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/googlecalendar"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
)

const (
	failureCalendar     = "calendar"
	failureNotification = "notification"

	defaultTimeout = 15 * time.Second
	retryBatchSize = 50
)

// Service побочные действия после фиксации бронирования
// Ни одна ошибка здесь не отменяет уже сохранённое бронирование
type Service struct {
	bookingRepo  BookingRepository
	hostRepo     HostRepository
	calendar     CalendarClient
	mailer       Mailer
	metrics      Metrics
	logger       Logger
	timeProvider TimeProvider
	timeout      time.Duration
}

// NewService создает новый экземпляр сервиса обогащения
func NewService(
	bookingRepo BookingRepository,
	hostRepo HostRepository,
	calendar CalendarClient,
	mailer Mailer,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		hostRepo:     hostRepo,
		calendar:     calendar,
		mailer:       mailer,
		metrics:      metrics,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
		timeout:      defaultTimeout,
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// WithTimeout ограничение на всё обогащение одного бронирования
func (s *Service) WithTimeout(timeout time.Duration) *Service {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Enrich создает событие в календаре хоста и рассылает уведомления
// Работает и после отмены запроса клиентом: бронирование уже сохранено
func (s *Service) Enrich(ctx context.Context, host *domain.Host, booking *domain.Booking) *domain.EnrichmentResult {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	result := &domain.EnrichmentResult{}
	s.createCalendarEvent(ctx, host, booking, result)
	result.Notifications = s.notify(ctx, host, booking, result.MeetLink)

	if result.Degraded() {
		s.logger.Warn("Enrich: booking_id=%d enriched with failures (calendar=%s)", booking.ID, result.CalendarStatus)
	} else {
		s.logger.Info("Enrich: booking_id=%d enriched (calendar=%s)", booking.ID, result.CalendarStatus)
	}
	return result
}

func (s *Service) createCalendarEvent(ctx context.Context, host *domain.Host, booking *domain.Booking, result *domain.EnrichmentResult) {
	if !s.calendar.Enabled() || !host.CalendarConnected() {
		result.CalendarStatus = domain.CalendarSkipped
		s.markSkipped(ctx, booking.ID)
		return
	}

	event, err := s.calendar.CreateEvent(ctx, credentials(host), eventRequest(host, booking))
	if err != nil {
		s.metrics.IncEnrichmentFailure(failureCalendar)
		s.logger.Error("Enrich: calendar event for booking_id=%d failed: %v", booking.ID, err)
		result.CalendarStatus = domain.CalendarFailed
		result.CalendarError = err.Error()
		s.markFailed(ctx, booking.ID)
		return
	}

	result.CalendarStatus = domain.CalendarCreated
	result.EventID = &event.ID
	result.MeetLink = event.MeetLink
	if err := s.bookingRepo.AttachCalendarEvent(ctx, booking.ID, event.ID, event.MeetLink); err != nil {
		s.logger.Error("Enrich: failed to attach event_id=%s to booking_id=%d: %v", event.ID, booking.ID, err)
	}
}

// notify отправляет письма хосту и гостю параллельно
// Результаты возвращаются в порядке: хост, гость
func (s *Service) notify(ctx context.Context, host *domain.Host, booking *domain.Booking, meetLink *string) []domain.NotificationResult {
	messages := []struct {
		to      string
		subject string
		body    string
	}{
		{to: host.Email, subject: hostSubject, body: hostMessage(host, booking, meetLink)},
		{to: booking.GuestEmail, subject: guestSubject, body: guestMessage(host, booking, meetLink)},
	}

	results := make([]domain.NotificationResult, len(messages))
	if !s.mailer.Enabled() {
		for i, m := range messages {
			results[i] = domain.NotificationResult{Recipient: m.to, Error: "mailer disabled"}
		}
		return results
	}

	var g errgroup.Group
	for i, m := range messages {
		g.Go(func() error {
			results[i] = domain.NotificationResult{Recipient: m.to, Sent: true}
			if err := s.mailer.Send(ctx, m.to, m.subject, m.body); err != nil {
				s.metrics.IncEnrichmentFailure(failureNotification)
				s.logger.Error("Enrich: notification to %s for booking_id=%d failed: %v", m.to, booking.ID, err)
				results[i] = domain.NotificationResult{Recipient: m.to, Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// RetryFailedCalendarEvents повторяет создание событий для будущих бронирований,
// у которых прошлые попытки завершились ошибкой или оборвались
// Бронирования забираются атомарно, поэтому параллельные экземпляры не создают дублей событий
// Возвращает количество успешно созданных событий
func (s *Service) RetryFailedCalendarEvents(ctx context.Context) (int, error) {
	if !s.calendar.Enabled() {
		return 0, nil
	}

	now := s.timeProvider.Now()
	bookings, err := s.bookingRepo.ClaimCalendarRetry(ctx, now, now.Add(-domain.CalendarClaimTTL), domain.MaxCalendarAttempts, retryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: RetryFailedCalendarEvents - repository error: %v", ErrInternal, err)
	}

	hosts := make(map[int64]*domain.Host)
	created := 0
	for _, booking := range bookings {
		if !booking.CanRetryCalendar(now) {
			s.markFailed(ctx, booking.ID)
			continue
		}

		host, ok := hosts[booking.HostID]
		if !ok {
			host, err = s.hostRepo.GetByID(ctx, booking.HostID)
			if err != nil {
				if errors.Is(err, hostRepo.ErrHostNotFound) {
					s.logger.Warn("RetryFailedCalendarEvents: host_id=%d not found, booking_id=%d skipped", booking.HostID, booking.ID)
					s.markSkipped(ctx, booking.ID)
					continue
				}
				s.markFailed(ctx, booking.ID)
				return created, fmt.Errorf("%w: RetryFailedCalendarEvents - host repository error: %v", ErrInternal, err)
			}
			hosts[booking.HostID] = host
		}

		var result domain.EnrichmentResult
		s.createCalendarEvent(ctx, host, booking, &result)
		if result.CalendarStatus == domain.CalendarCreated {
			created++
		}
	}

	if len(bookings) > 0 {
		s.logger.Info("RetryFailedCalendarEvents: %d of %d events created", created, len(bookings))
	}
	return created, nil
}

func (s *Service) markFailed(ctx context.Context, bookingID int64) {
	if err := s.bookingRepo.MarkCalendarFailed(ctx, bookingID); err != nil {
		s.logger.Error("Enrich: failed to mark calendar failed for booking_id=%d: %v", bookingID, err)
	}
}

func (s *Service) markSkipped(ctx context.Context, bookingID int64) {
	if err := s.bookingRepo.MarkCalendarSkipped(ctx, bookingID); err != nil {
		s.logger.Error("Enrich: failed to mark calendar skipped for booking_id=%d: %v", bookingID, err)
	}
}

func credentials(host *domain.Host) googlecalendar.Credentials {
	var creds googlecalendar.Credentials
	if host.GoogleAccessToken != nil {
		creds.AccessToken = *host.GoogleAccessToken
	}
	if host.GoogleRefreshToken != nil {
		creds.RefreshToken = *host.GoogleRefreshToken
	}
	if host.GoogleTokenExpiry != nil {
		creds.Expiry = *host.GoogleTokenExpiry
	}
	return creds
}

func eventRequest(host *domain.Host, booking *domain.Booking) googlecalendar.EventRequest {
	return googlecalendar.EventRequest{
		Summary:     eventSummary(host, booking),
		Description: eventDescription(booking),
		StartAt:     booking.StartAt,
		EndAt:       booking.EndAt,
		Timezone:    host.Location().String(),
		HostEmail:   host.Email,
		GuestName:   booking.GuestName,
		GuestEmail:  booking.GuestEmail,
	}
}
