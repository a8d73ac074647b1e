package create_booking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
)

// memBookingRepo хранилище без собственной защиты от пересечений:
// корректность обеспечивается только критической секцией use case
type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (r *memBookingRepo) LockHost(ctx context.Context, hostID int64) error { return nil }

func (r *memBookingRepo) ListOverlapping(ctx context.Context, hostID int64, start, end time.Time) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := domain.Interval{Start: start, End: end}
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.HostID == hostID && b.Interval().Overlaps(candidate) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	// расширяем окно гонки между проверкой и вставкой
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	booking.ID = r.nextID
	r.bookings = append(r.bookings, booking)
	return booking, nil
}

type memHostRepo struct{}

func (memHostRepo) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	switch username {
	case "alice":
		return &domain.Host{ID: 1, Username: "alice", Email: "alice@example.com", Timezone: "UTC"}, nil
	case "bob":
		return &domain.Host{ID: 2, Username: "bob", Email: "bob@example.com", Timezone: "UTC"}, nil
	}
	return nil, hostRepo.ErrHostNotFound
}

// memSlotRepo каждый хост публикует понедельник 09:00-17:00 одним окном
// withdrawn имитирует удаление слотов хостом
type memSlotRepo struct {
	withdrawn   atomic.Bool
	sharedLocks atomic.Int32
}

func (r *memSlotRepo) LockHostShared(ctx context.Context, hostID int64) error {
	r.sharedLocks.Add(1)
	return nil
}

func (r *memSlotRepo) List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error) {
	if r.withdrawn.Load() || (filter.Day != nil && *filter.Day != domain.Monday) {
		return []*domain.AvailabilitySlot{}, nil
	}
	return []*domain.AvailabilitySlot{{
		HostID:    filter.HostID,
		DayOfWeek: domain.Monday,
		StartTime: "09:00",
		EndTime:   "17:00",
		SlotType:  domain.DefaultSlotType,
	}}, nil
}

type stubEnricher struct{ calls atomic.Int32 }

func (e *stubEnricher) Enrich(ctx context.Context, host *domain.Host, booking *domain.Booking) *domain.EnrichmentResult {
	e.calls.Add(1)
	return &domain.EnrichmentResult{
		CalendarStatus: domain.CalendarFailed,
		CalendarError:  "calendar unavailable",
		Notifications: []domain.NotificationResult{
			{Recipient: host.Email, Sent: true},
			{Recipient: booking.GuestEmail, Sent: false, Error: "smtp down"},
		},
	}
}

// inlineTx выполняет fn сразу; begin вызывается перед fn, как если бы
// чужая транзакция успела зафиксироваться до захвата блокировок
type inlineTx struct{ begin func() }

func (tx inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx.begin != nil {
		tx.begin()
	}
	return fn(ctx)
}

type countingMetrics struct {
	created   atomic.Int32
	conflicts atomic.Int32
}

func (m *countingMetrics) IncBookingsCreated()  { m.created.Add(1) }
func (m *countingMetrics) IncBookingConflicts() { m.conflicts.Add(1) }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2 марта 2026 - понедельник
func mondayAt(hh, mm int) time.Time {
	return time.Date(2026, time.March, 2, hh, mm, 0, 0, time.UTC)
}

type fixture struct {
	uc       *UseCase
	repo     *memBookingRepo
	slots    *memSlotRepo
	enricher *stubEnricher
	metrics  *countingMetrics
}

func newFixture() *fixture {
	return newFixtureWithTx(inlineTx{})
}

func newFixtureWithTx(tx inlineTx) *fixture {
	f := &fixture{
		repo:     &memBookingRepo{},
		slots:    &memSlotRepo{},
		enricher: &stubEnricher{},
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(f.repo, memHostRepo{}, f.slots, f.enricher, keylock.New(), tx, f.metrics, nopLogger{}).
		WithTimeProvider(fixedClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)})
	return f
}

func request(username string, start, end time.Time) *Request {
	return &Request{
		Username:   username,
		GuestName:  "Guest",
		GuestEmail: "guest@example.com",
		StartAt:    start,
		EndAt:      end,
	}
}

func TestExecute_TouchingSucceedsOverlappingConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("alice", mondayAt(10, 0), mondayAt(10, 30)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request("alice", mondayAt(10, 30), mondayAt(11, 0)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request("alice", mondayAt(10, 15), mondayAt(10, 45)))
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, int32(2), f.metrics.created.Load())
	assert.Equal(t, int32(1), f.metrics.conflicts.Load())
}

func TestExecute_HostsAreIndependent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("alice", mondayAt(10, 0), mondayAt(10, 30)))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request("bob", mondayAt(10, 0), mondayAt(10, 30)))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentOverlappingExactlyOneWins(t *testing.T) {
	for round := 0; round < 20; round++ {
		f := newFixture()
		ctx := context.Background()

		var (
			wg        sync.WaitGroup
			successes atomic.Int32
			conflicts atomic.Int32
			start     = make(chan struct{})
		)

		requests := []*Request{
			request("alice", mondayAt(10, 0), mondayAt(10, 30)),
			request("alice", mondayAt(10, 15), mondayAt(10, 45)),
		}

		for _, req := range requests {
			wg.Add(1)
			go func(req *Request) {
				defer wg.Done()
				<-start
				_, err := f.uc.Execute(ctx, req)
				switch {
				case err == nil:
					successes.Add(1)
				case assert.ErrorIs(t, err, ErrConflict):
					conflicts.Add(1)
				}
			}(req)
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), successes.Load(), "round %d", round)
		require.Equal(t, int32(1), conflicts.Load(), "round %d", round)
		require.Len(t, f.repo.bookings, 1)
	}
}

func TestExecute_ManyConcurrentSameInterval(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	var successes atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.Execute(ctx, request("alice", mondayAt(14, 0), mondayAt(14, 30))); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Len(t, f.repo.bookings, 1)
}

func TestExecute_DegradedEnrichmentStillSucceeds(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), request("alice", mondayAt(9, 0), mondayAt(9, 30)))
	require.NoError(t, err)

	require.NotNil(t, resp.Booking)
	assert.NotZero(t, resp.Booking.ID)
	assert.True(t, resp.Enrichment.Degraded())
	assert.Equal(t, int32(1), f.enricher.calls.Load())
}

func TestExecute_ConflictSkipsEnrichment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request("alice", mondayAt(9, 0), mondayAt(9, 30)))
	require.NoError(t, err)
	_, err = f.uc.Execute(ctx, request("alice", mondayAt(9, 0), mondayAt(9, 30)))
	require.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, int32(1), f.enricher.calls.Load())
}

func TestExecute_SlotRemovedBeforeCommitIsRejected(t *testing.T) {
	var f *fixture
	f = newFixtureWithTx(inlineTx{begin: func() { f.slots.withdrawn.Store(true) }})

	_, err := f.uc.Execute(context.Background(), request("alice", mondayAt(9, 0), mondayAt(9, 30)))

	assert.ErrorIs(t, err, ErrOutsideAvailability)
	assert.Empty(t, f.repo.bookings)
	assert.Zero(t, f.enricher.calls.Load())
	assert.Equal(t, int32(1), f.slots.sharedLocks.Load())
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "missing name", req: &Request{Username: "alice", GuestEmail: "g@example.com", StartAt: mondayAt(9, 0), EndAt: mondayAt(9, 30)}, want: ErrInvalidInput},
		{name: "missing email", req: &Request{Username: "alice", GuestName: "G", StartAt: mondayAt(9, 0), EndAt: mondayAt(9, 30)}, want: ErrInvalidInput},
		{name: "malformed email", req: &Request{Username: "alice", GuestName: "G", GuestEmail: "not-an-email", StartAt: mondayAt(9, 0), EndAt: mondayAt(9, 30)}, want: ErrInvalidInput},
		{name: "missing start", req: &Request{Username: "alice", GuestName: "G", GuestEmail: "g@example.com", EndAt: mondayAt(9, 30)}, want: ErrInvalidInput},
		{name: "start after end", req: request("alice", mondayAt(10, 0), mondayAt(9, 30)), want: ErrInvalidInput},
		{name: "in the past", req: request("alice", time.Date(2026, time.February, 23, 9, 0, 0, 0, time.UTC), time.Date(2026, time.February, 23, 9, 30, 0, 0, time.UTC)), want: ErrInvalidInput},
		{name: "unknown host", req: request("ghost", mondayAt(9, 0), mondayAt(9, 30)), want: ErrHostNotFound},
		{name: "outside window", req: request("alice", mondayAt(16, 45), mondayAt(17, 15)), want: ErrOutsideAvailability},
		{name: "wrong weekday", req: request("alice", mondayAt(9, 0).AddDate(0, 0, 1), mondayAt(9, 30).AddDate(0, 0, 1)), want: ErrOutsideAvailability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, f.repo.bookings)
}
