package hosts

import (
	"context"
	"errors"
	"fmt"
	"time"

	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hosts/models"
)

// Service сервис данных хоста
type Service struct {
	hostRepo HostRepository
	logger   Logger
	now      func() time.Time
}

func NewService(hostRepo HostRepository, logger Logger) *Service {
	return &Service{hostRepo: hostRepo, logger: logger, now: time.Now}
}

// WithTimeProvider устанавливает провайдер времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.now = tp.Now
	return s
}

// CalendarStatus подключён ли календарь и нужно ли обновить access token
func (s *Service) CalendarStatus(ctx context.Context, hostID int64) (*models.CalendarStatusResponse, error) {
	host, err := s.hostRepo.GetByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			s.logger.Warn("CalendarStatus: host id=%d not found", hostID)
			return nil, ErrHostNotFound
		}
		s.logger.Error("CalendarStatus: repository error for host id=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: CalendarStatus - repository error: %v", ErrInternal, err)
	}

	connected := host.CalendarConnected()
	valid := host.HasValidToken(s.now())

	return &models.CalendarStatusResponse{
		Connected:     connected,
		HasValidToken: valid,
		NeedsRefresh:  connected && !valid,
		TokenExpiry:   host.GoogleTokenExpiry,
	}, nil
}
