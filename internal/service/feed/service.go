package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
)

// Service iCalendar-выгрузки бронирований и расписания
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	hostRepo     HostRepository
	builder      *Builder
	logger       Logger
	timeProvider TimeProvider
}

func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	hostRepo HostRepository,
	builder *Builder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		hostRepo:     hostRepo,
		builder:      builder,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// HostBookings предстоящие бронирования хоста в формате iCalendar
func (s *Service) HostBookings(ctx context.Context, hostID int64) (string, error) {
	host, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		return "", s.hostError("HostBookings", fmt.Sprint(hostID), err)
	}

	now := s.timeProvider.Now()
	bookings, err := s.bookingRepo.ListByHost(ctx, domain.BookingsFilter{HostID: hostID, From: &now})
	if err != nil {
		s.logger.Error("HostBookings: repository error for host=%d: %v", hostID, err)
		return "", fmt.Errorf("%w: HostBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("HostBookings: exporting %d bookings for host=%d", len(bookings), hostID)
	return s.builder.Bookings(host, bookings, now), nil
}

// HostAvailability опубликованные слоты хоста как еженедельные события
func (s *Service) HostAvailability(ctx context.Context, username string) (string, error) {
	host, err := s.hostRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", s.hostError("HostAvailability", username, err)
	}

	slots, err := s.slotRepo.List(ctx, availabilityRepo.Filter{HostID: host.ID})
	if err != nil {
		s.logger.Error("HostAvailability: repository error for host=%d: %v", host.ID, err)
		return "", fmt.Errorf("%w: HostAvailability - repository error: %v", ErrInternal, err)
	}

	doc, err := s.builder.Availability(host, slots, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("HostAvailability: failed to build calendar for host=%d: %v", host.ID, err)
		return "", fmt.Errorf("%w: HostAvailability - build calendar: %v", ErrInternal, err)
	}
	return doc, nil
}

func (s *Service) hostError(op, host string, err error) error {
	if errors.Is(err, hostRepo.ErrHostNotFound) {
		s.logger.Warn("%s: host %s not found", op, host)
		return ErrHostNotFound
	}
	s.logger.Error("%s: failed to get host %s: %v", op, host, err)
	return fmt.Errorf("%w: %s - host repository error: %v", ErrInternal, op, err)
}
