package create_bulk_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/slotid"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case массовой публикации слотов одного типа
type UseCase struct {
	slotRepo    SlotRepository
	hostRepo    HostRepository
	idGenerator SlotIDGenerator
	locker      KeyLocker
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	hostRepo HostRepository,
	idGenerator SlotIDGenerator,
	locker KeyLocker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		hostRepo:    hostRepo,
		idGenerator: idGenerator,
		locker:      locker,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute заменяет все слоты (host, slotType) на сгенерированный набор
// Удаление старых и вставка новых слотов выполняются в одной транзакции под блокировкой инвентаря хоста
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBulkSlots: host=%d, type=%q, days=%v, ranges=%d, interval=%d",
		req.HostID, req.SlotType, req.Days, len(req.TimeRanges), req.IntervalMinutes)

	// 1. Валидация входных данных
	days, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBulkSlots: validation failed: %v", err)
		return nil, err
	}
	slotType := strings.TrimSpace(req.SlotType)

	// 2. Проверяем хоста
	if _, err := uc.hostRepo.GetByID(ctx, req.HostID); err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			uc.logger.Warn("CreateBulkSlots: host id=%d not found", req.HostID)
			return nil, ErrHostNotFound
		}
		uc.logger.Error("CreateBulkSlots: failed to get host id=%d: %v", req.HostID, err)
		return nil, fmt.Errorf("%w: failed to get host: %v", ErrInternal, err)
	}

	// 3. Генерируем кандидатов
	candidates := Expand(days, req.TimeRanges, req.IntervalMinutes)

	// 4. Сериализуем изменения инвентаря хоста внутри процесса
	unlock, err := uc.locker.Lock(ctx, domain.InventoryLockKey(req.HostID))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire inventory lock: %v", ErrInternal, err)
	}
	defer unlock()

	var created []*domain.AvailabilitySlot

	// 5. Заменяем слоты типа в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotRepo.LockHost(txCtx, req.HostID); err != nil {
			uc.logger.Error("CreateBulkSlots: failed to lock host=%d: %v", req.HostID, err)
			return fmt.Errorf("%w: failed to lock inventory: %v", ErrInternal, err)
		}

		existing, err := uc.slotRepo.List(txCtx, availabilityRepo.Filter{HostID: req.HostID, SlotType: &slotType})
		if err != nil {
			uc.logger.Error("CreateBulkSlots: failed to list existing slots: %v", err)
			return fmt.Errorf("%w: failed to list existing slots: %v", ErrInternal, err)
		}

		deleted, err := uc.slotRepo.DeleteByType(txCtx, req.HostID, slotType)
		if err != nil {
			uc.logger.Error("CreateBulkSlots: failed to delete slots of type %q: %v", slotType, err)
			return fmt.Errorf("%w: failed to delete slots: %v", ErrInternal, err)
		}
		uc.logger.Info("CreateBulkSlots: removed %d previous slots of type %q", deleted, slotType)

		slots := uc.buildSlots(req.HostID, slotType, req.IntervalMinutes, candidates, existing)

		created, err = uc.slotRepo.CreateBatch(txCtx, slots)
		if err != nil {
			uc.logger.Error("CreateBulkSlots: failed to insert slots: %v", err)
			return fmt.Errorf("%w: failed to insert slots: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.AddSlotsPublished(len(created))
	uc.logger.Info("CreateBulkSlots: published %d slots of type %q for host=%d", len(created), slotType, req.HostID)

	return &Response{
		CreatedCount: len(created),
		Slots:        created,
	}, nil
}

// buildSlots присваивает кандидатам идентификаторы
// Слот с тем же (day, start, end), что и удалённый, сохраняет прежний slotID
func (uc *UseCase) buildSlots(
	hostID int64,
	slotType string,
	interval int,
	candidates []Candidate,
	existing []*domain.AvailabilitySlot,
) []*domain.AvailabilitySlot {
	type windowKey struct {
		day        domain.Weekday
		start, end types.TimeString
	}

	previous := make(map[windowKey]string, len(existing))
	for _, s := range existing {
		previous[windowKey{day: s.DayOfWeek, start: s.StartTime, end: s.EndTime}] = s.SlotID
	}

	name := slotid.Slugify(slotType)
	slots := make([]*domain.AvailabilitySlot, 0, len(candidates))

	for _, c := range candidates {
		id, ok := previous[windowKey{day: c.Day, start: c.Window.Start, end: c.Window.End}]
		if !ok {
			id = uc.idGenerator.New(slotType, string(c.Day), c.Window.Start.String(), c.Window.End.String())
		}

		slots = append(slots, &domain.AvailabilitySlot{
			HostID:          hostID,
			DayOfWeek:       c.Day,
			StartTime:       c.Window.Start,
			EndTime:         c.Window.End,
			SlotType:        slotType,
			Name:            name,
			SlotID:          id,
			DurationMinutes: interval,
		})
	}

	return slots
}
