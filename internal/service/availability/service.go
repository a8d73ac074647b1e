package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/slotid"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис для работы с опубликованными слотами хоста
// Все изменения инвентаря одного хоста сериализуются: внутрипроцессная блокировка + advisory lock в транзакции
type Service struct {
	slotRepo    SlotRepository
	hostRepo    HostRepository
	idGenerator SlotIDGenerator
	locker      KeyLocker
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	hostRepo HostRepository,
	idGenerator SlotIDGenerator,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		hostRepo:    hostRepo,
		idGenerator: idGenerator,
		locker:      locker,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListAll возвращает все слоты хоста в порядке добавления
func (s *Service) ListAll(ctx context.Context, hostID int64) (*models.SlotListResponse, error) {
	slots, err := s.slotRepo.List(ctx, availabilityRepo.Filter{HostID: hostID})
	if err != nil {
		s.logger.Error("ListAll: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListAll - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// ListGrouped возвращает слоты хоста, сгруппированные по типу
func (s *Service) ListGrouped(ctx context.Context, hostID int64) (*models.GroupedSlotsResponse, error) {
	groups, err := s.groups(ctx, hostID)
	if err != nil {
		s.logger.Error("ListGrouped: repository error for host=%d: %v", hostID, err)
		return nil, fmt.Errorf("%w: ListGrouped - repository error: %v", ErrInternal, err)
	}

	return &models.GroupedSlotsResponse{Groups: models.FromDomainGroups(groups)}, nil
}

// GetPublicAvailability публичный профиль хоста и его слоты по типам
func (s *Service) GetPublicAvailability(ctx context.Context, username string) (*models.PublicAvailabilityResponse, error) {
	s.logger.Info("GetPublicAvailability: fetching availability for username=%s", username)

	host, err := s.hostRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			s.logger.Warn("GetPublicAvailability: host %s not found", username)
			return nil, ErrHostNotFound
		}
		s.logger.Error("GetPublicAvailability: failed to get host %s: %v", username, err)
		return nil, fmt.Errorf("%w: GetPublicAvailability - host repository error: %v", ErrInternal, err)
	}

	groups, err := s.groups(ctx, host.ID)
	if err != nil {
		s.logger.Error("GetPublicAvailability: repository error for host=%d: %v", host.ID, err)
		return nil, fmt.Errorf("%w: GetPublicAvailability - repository error: %v", ErrInternal, err)
	}

	return &models.PublicAvailabilityResponse{
		Host:   models.FromDomainHost(host),
		Groups: models.FromDomainGroups(groups),
	}, nil
}

func (s *Service) groups(ctx context.Context, hostID int64) ([]domain.SlotGroup, error) {
	slots, err := s.slotRepo.List(ctx, availabilityRepo.Filter{HostID: hostID})
	if err != nil {
		return nil, err
	}

	values := make([]domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		values = append(values, *slot)
	}
	return domain.GroupByType(values), nil
}

// InsertSingle добавляет один слот
// Если у хоста уже есть слот с тем же (day, start, end), у него меняется тип, slotID сохраняется
func (s *Service) InsertSingle(ctx context.Context, req *models.InsertSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("InsertSingle: host=%d, day=%s, %s-%s, type=%q",
		req.HostID, req.DayOfWeek, req.StartTime, req.EndTime, req.SlotType)

	// 1. Валидируем входные данные
	day, start, end, duration, err := validateInsert(req)
	if err != nil {
		s.logger.Warn("InsertSingle: validation failed: %v", err)
		return nil, err
	}
	slotType := strings.TrimSpace(req.SlotType)
	if slotType == "" {
		slotType = domain.DefaultSlotType
	}
	name := slotid.Slugify(slotType)

	// 2. Проверяем хоста
	if _, err := s.hostRepo.GetByID(ctx, req.HostID); err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			s.logger.Warn("InsertSingle: host id=%d not found", req.HostID)
			return nil, ErrHostNotFound
		}
		s.logger.Error("InsertSingle: failed to get host id=%d: %v", req.HostID, err)
		return nil, fmt.Errorf("%w: failed to get host: %v", ErrInternal, err)
	}

	// 3. Upsert по окну
	var result *domain.AvailabilitySlot
	err = s.mutate(ctx, req.HostID, "InsertSingle", func(txCtx context.Context) error {
		existing, err := s.slotRepo.FindByWindow(txCtx, req.HostID, day, start, end)
		switch {
		case err == nil:
			if existing.SlotType == slotType {
				result = existing
				return nil
			}
			result, err = s.slotRepo.UpdateType(txCtx, existing.ID, slotType, name)
			if err != nil {
				return err
			}
			s.logger.Info("InsertSingle: slot %s retyped from %q to %q", existing.SlotID, existing.SlotType, slotType)
			return nil
		case errors.Is(err, availabilityRepo.ErrSlotNotFound):
			result, err = s.slotRepo.Create(txCtx, &domain.AvailabilitySlot{
				HostID:          req.HostID,
				DayOfWeek:       day,
				StartTime:       start,
				EndTime:         end,
				SlotType:        slotType,
				Name:            name,
				SlotID:          s.idGenerator.New(slotType, day.String(), start.String(), end.String()),
				DurationMinutes: duration,
			})
			return err
		default:
			return err
		}
	})

	if err != nil {
		if errors.Is(err, availabilityRepo.ErrDuplicateSlot) {
			s.logger.Warn("InsertSingle: %v", err)
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	s.logger.Info("InsertSingle: slot %s stored for host=%d", result.SlotID, req.HostID)
	return models.FromDomainSlot(result), nil
}

// DeleteByDay удаляет все слоты хоста на день недели
func (s *Service) DeleteByDay(ctx context.Context, hostID int64, day string) (*models.DeleteResponse, error) {
	weekday, err := domain.ParseWeekday(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.deleteSlots(ctx, hostID, "DeleteByDay", func(txCtx context.Context) (int64, error) {
		return s.slotRepo.DeleteByDay(txCtx, hostID, weekday)
	})
}

// DeleteBySlotID удаляет один слот по slotID
// Отсутствие слота не является ошибкой
func (s *Service) DeleteBySlotID(ctx context.Context, hostID int64, slotID string) (*models.DeleteResponse, error) {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return nil, fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}

	return s.deleteSlots(ctx, hostID, "DeleteBySlotID", func(txCtx context.Context) (int64, error) {
		return s.slotRepo.DeleteBySlotID(txCtx, hostID, slotID)
	})
}

// DeleteByType удаляет все слоты хоста указанного типа
func (s *Service) DeleteByType(ctx context.Context, hostID int64, slotType string) (*models.DeleteResponse, error) {
	slotType = strings.TrimSpace(slotType)
	if slotType == "" {
		return nil, fmt.Errorf("%w: slotType is required", ErrInvalidInput)
	}

	return s.deleteSlots(ctx, hostID, "DeleteByType", func(txCtx context.Context) (int64, error) {
		return s.slotRepo.DeleteByType(txCtx, hostID, slotType)
	})
}

func (s *Service) deleteSlots(ctx context.Context, hostID int64, op string, fn func(ctx context.Context) (int64, error)) (*models.DeleteResponse, error) {
	var deleted int64
	err := s.mutate(ctx, hostID, op, func(txCtx context.Context) error {
		var err error
		deleted, err = fn(txCtx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: deleted %d slots for host=%d", op, deleted, hostID)
	return &models.DeleteResponse{Deleted: deleted}, nil
}

// mutate выполняет fn в транзакции под блокировками инвентаря хоста
func (s *Service) mutate(ctx context.Context, hostID int64, op string, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, domain.InventoryLockKey(hostID))
	if err != nil {
		return fmt.Errorf("%w: %s - failed to acquire inventory lock: %v", ErrInternal, op, err)
	}
	defer unlock()

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.slotRepo.LockHost(txCtx, hostID); err != nil {
			return err
		}
		return fn(txCtx)
	})
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrDuplicateSlot) {
			return err
		}
		s.logger.Error("%s: repository error for host=%d: %v", op, hostID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

func validateInsert(req *models.InsertSlotRequest) (domain.Weekday, types.TimeString, types.TimeString, int, error) {
	if req.HostID <= 0 {
		return "", "", "", 0, fmt.Errorf("%w: hostID must be positive", ErrInvalidInput)
	}

	day, err := domain.ParseWeekday(req.DayOfWeek)
	if err != nil {
		return "", "", "", 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return "", "", "", 0, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	end, err := types.NewEndTimeStringFromString(req.EndTime)
	if err != nil {
		return "", "", "", 0, fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return "", "", "", 0, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if len(strings.TrimSpace(req.SlotType)) > domain.MaxSlotTypeLength {
		return "", "", "", 0, fmt.Errorf("%w: slotType must be at most %d characters", ErrInvalidInput, domain.MaxSlotTypeLength)
	}

	startMin, _ := start.Minutes()
	endMin, _ := end.Minutes()
	return day, start, end, endMin - startMin, nil
}
