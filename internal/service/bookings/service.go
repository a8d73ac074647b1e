package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	hostRepo     HostRepository
	logger       Logger
	timeProvider TimeProvider
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	hostRepo HostRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		hostRepo:     hostRepo,
		logger:       logger,
		timeProvider: &RealTimeProvider{},
	}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование хоста по ID
// Чужое бронирование выглядит как несуществующее
func (s *Service) GetByID(ctx context.Context, id int64, hostID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for host=%d", id, hostID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.HostID != hostID {
		s.logger.Warn("GetByID: booking id=%d does not belong to host=%d", id, hostID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainBooking(booking), nil
}

// ListUpcoming бронирования хоста, которые ещё не закончились, по времени начала
func (s *Service) ListUpcoming(ctx context.Context, hostID int64) (*models.BookingListResponse, error) {
	bookings, err := s.upcoming(ctx, hostID)
	if err != nil {
		s.logger.Error("ListUpcoming: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListUpcoming - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListUpcoming: fetched %d bookings for host=%d", len(bookings), hostID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBusy публичные занятые интервалы хоста, начиная с текущего момента
func (s *Service) ListBusy(ctx context.Context, username string) (*models.BusyListResponse, error) {
	host, err := s.hostRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			s.logger.Warn("ListBusy: host %s not found", username)
			return nil, ErrHostNotFound
		}
		s.logger.Error("ListBusy: failed to get host %s: %v", username, err)
		return nil, fmt.Errorf("%w: ListBusy - host repository error: %v", ErrInternal, err)
	}

	bookings, err := s.upcoming(ctx, host.ID)
	if err != nil {
		s.logger.Error("ListBusy: repository error for host=%d: %v", host.ID, err)
		return nil, fmt.Errorf("%w: ListBusy - repository error: %v", ErrInternal, err)
	}

	return models.ToBusyList(host.Username, bookings), nil
}

// Upcoming доменные бронирования хоста, которые ещё не закончились
// Используется для iCalendar-выгрузки
func (s *Service) Upcoming(ctx context.Context, hostID int64) ([]*domain.Booking, error) {
	bookings, err := s.upcoming(ctx, hostID)
	if err != nil {
		s.logger.Error("Upcoming: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: Upcoming - repository error: %v", ErrInternal, err)
	}
	return bookings, nil
}

func (s *Service) upcoming(ctx context.Context, hostID int64) ([]*domain.Booking, error) {
	now := s.timeProvider.Now()
	bookings, err := s.bookingRepo.ListByHost(ctx, domain.BookingsFilter{HostID: hostID, From: &now})
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsUpcoming(now) {
			result = append(result, b)
		}
	}
	return result, nil
}
