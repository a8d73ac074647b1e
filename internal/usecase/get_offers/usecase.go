package get_offers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
)

// UseCase use case для получения слотов, доступных для бронирования на дату
type UseCase struct {
	hostRepo     HostRepository
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hostRepo HostRepository,
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		hostRepo:     hostRepo,
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case
// Слоты и бронирования читаются из одного снимка данных (read-only транзакция)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetOffers: username=%s, date=%s", req.Username, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetOffers: validation failed: %v", err)
		return nil, err
	}

	var slotType *string
	if req.SlotType != nil {
		trimmed := strings.TrimSpace(*req.SlotType)
		slotType = &trimmed
	}

	now := uc.timeProvider.Now()

	var (
		host     *domain.Host
		slots    []*domain.AvailabilitySlot
		bookings []*domain.Booking
	)

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 2. Получаем хоста
		var err error
		host, err = uc.hostRepo.GetByUsername(txCtx, req.Username)
		if err != nil {
			if errors.Is(err, hostRepo.ErrHostNotFound) {
				uc.logger.Warn("GetOffers: host %q not found", req.Username)
				return ErrHostNotFound
			}
			uc.logger.Error("GetOffers: failed to get host %q: %v", req.Username, err)
			return fmt.Errorf("%w: failed to get host: %v", ErrInternal, err)
		}

		// 3. Получаем опубликованные слоты (с фильтром по типу)
		slots, err = uc.slotRepo.List(txCtx, availabilityRepo.Filter{HostID: host.ID, SlotType: slotType})
		if err != nil {
			uc.logger.Error("GetOffers: failed to list slots for host=%d: %v", host.ID, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		if slotType != nil && len(slots) == 0 {
			uc.logger.Warn("GetOffers: host=%d has no slots of type %q", host.ID, *slotType)
			return ErrSlotTypeNotFound
		}

		// 4. Получаем бронирования, пересекающиеся с днём в часовом поясе хоста
		from, to := dayBounds(req.Date, host.Location())
		bookings, err = uc.bookingRepo.ListByHost(txCtx, domain.BookingsFilter{
			HostID: host.ID,
			From:   &from,
			To:     &to,
		})
		if err != nil {
			uc.logger.Error("GetOffers: failed to list bookings for host=%d: %v", host.ID, err)
			return fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Вычисляем доступные окна
	offers := ResolveOffers(ResolveInput{
		Slots:    slots,
		Date:     req.Date,
		Location: host.Location(),
		Bookings: bookings,
		Now:      now,
		SlotType: slotType,
	})

	uc.logger.Info("GetOffers: host=%d, date=%s: %d offers (%d slots, %d bookings)",
		host.ID, req.Date.Format(domain.DateFormat), len(offers), len(slots), len(bookings))

	return &Response{
		HostID:   host.ID,
		Date:     req.Date.Format(domain.DateFormat),
		Timezone: host.Location().String(),
		Offers:   offers,
	}, nil
}
