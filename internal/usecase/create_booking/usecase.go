package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	hostRepo     HostRepository
	slotRepo     SlotRepository
	enricher     Enricher
	locker       KeyLocker
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	hostRepo HostRepository,
	slotRepo SlotRepository,
	enricher Enricher,
	locker KeyLocker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		hostRepo:     hostRepo,
		slotRepo:     slotRepo,
		enricher:     enricher,
		locker:       locker,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
//
// Проверка окна, проверка пересечений и вставка выполняются атомарно относительно других бронирований
// и изменений слотов того же хоста: внутрипроцессная блокировка по хосту, затем транзакция READ COMMITTED
// с pg_advisory_xact_lock бронирований и разделяемой блокировкой инвентаря.
// После захвата блокировок запросы видят все ранее зафиксированные бронирования и слоты.
// Календарь и письма обрабатываются после фиксации и не влияют на результат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: username=%s, guest=%s, start=%s, end=%s",
		req.Username, req.GuestEmail, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем хоста
	host, err := uc.hostRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, hostRepo.ErrHostNotFound) {
			uc.logger.Warn("CreateBooking: host %q not found", req.Username)
			return nil, ErrHostNotFound
		}
		uc.logger.Error("CreateBooking: failed to get host %q: %v", req.Username, err)
		return nil, fmt.Errorf("%w: failed to get host: %v", ErrInternal, err)
	}

	// 3. Критическая секция по хосту
	created, err := uc.commit(ctx, host, &domain.Booking{
		HostID:         host.ID,
		GuestName:      strings.TrimSpace(req.GuestName),
		GuestEmail:     strings.TrimSpace(req.GuestEmail),
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		CalendarStatus: domain.CalendarPending,
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingsCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d for host=%d", created.ID, host.ID)

	// 4. Побочные действия после фиксации
	enrichment := uc.enricher.Enrich(ctx, host, created)
	if enrichment.Degraded() {
		uc.logger.Warn("CreateBooking: booking id=%d committed with degraded enrichment", created.ID)
	}

	return &Response{
		Booking:    created,
		Enrichment: enrichment,
	}, nil
}

func (uc *UseCase) commit(ctx context.Context, host *domain.Host, booking *domain.Booking) (*domain.Booking, error) {
	unlock, err := uc.locker.Lock(ctx, domain.BookingLockKey(host.ID))
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to acquire lock for host=%d: %v", host.ID, err)
		return nil, fmt.Errorf("%w: failed to acquire booking lock: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.bookingRepo.LockHost(txCtx, host.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock host=%d: %v", host.ID, err)
			return fmt.Errorf("%w: failed to lock host: %v", ErrInternal, err)
		}

		if err := uc.slotRepo.LockHostShared(txCtx, host.ID); err != nil {
			uc.logger.Error("CreateBooking: failed to lock availability of host=%d: %v", host.ID, err)
			return fmt.Errorf("%w: failed to lock availability: %v", ErrInternal, err)
		}

		// Интервал должен лежать внутри опубликованного слота на локальный день недели хоста
		loc := host.Location()
		day := domain.WeekdayOf(booking.StartAt.In(loc))
		slots, err := uc.slotRepo.List(txCtx, availabilityRepo.Filter{HostID: host.ID, Day: &day})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list slots for host=%d: %v", host.ID, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}
		if !isWithinAvailability(booking.Interval(), slots, loc) {
			uc.logger.Warn("CreateBooking: interval %s-%s is outside availability of host=%d",
				booking.StartAt.In(loc).Format(domain.TimeFormat), booking.EndAt.In(loc).Format(domain.TimeFormat), host.ID)
			return ErrOutsideAvailability
		}

		overlapping, err := uc.bookingRepo.ListOverlapping(txCtx, host.ID, booking.StartAt, booking.EndAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to list overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: interval overlaps booking id=%d of host=%d", overlapping[0].ID, host.ID)
			return ErrConflict
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrOverlap) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected booking for host=%d", host.ID)
				return ErrConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if errors.Is(err, ErrConflict) {
		uc.metrics.IncBookingConflicts()
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}
