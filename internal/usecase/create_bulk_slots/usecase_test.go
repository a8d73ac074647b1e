package create_bulk_slots

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
)

type memSlotRepo struct {
	mu     sync.Mutex
	nextID int64
	slots  []*domain.AvailabilitySlot
}

func (r *memSlotRepo) LockHost(ctx context.Context, hostID int64) error { return nil }

func (r *memSlotRepo) List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.AvailabilitySlot, 0)
	for _, s := range r.slots {
		if s.HostID != filter.HostID {
			continue
		}
		if filter.SlotType != nil && s.SlotType != *filter.SlotType {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSlotRepo) DeleteByType(ctx context.Context, hostID int64, slotType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.slots[:0]
	var deleted int64
	for _, s := range r.slots {
		if s.HostID == hostID && s.SlotType == slotType {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.slots = kept
	return deleted, nil
}

func (r *memSlotRepo) CreateBatch(ctx context.Context, slots []*domain.AvailabilitySlot) ([]*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range slots {
		r.nextID++
		s.ID = r.nextID
		cp := *s
		r.slots = append(r.slots, &cp)
	}
	return slots, nil
}

type memHostRepo struct{}

func (memHostRepo) GetByID(ctx context.Context, id int64) (*domain.Host, error) {
	if id != 1 {
		return nil, hostRepo.ErrHostNotFound
	}
	return &domain.Host{ID: 1, Username: "alice"}, nil
}

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) New(slotType, day, start, end string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%s-%s-%s-%d", slotType, day, start, end, g.n)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type nopMetrics struct{}

func (nopMetrics) AddSlotsPublished(int) {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(repo *memSlotRepo) *UseCase {
	return NewUseCase(repo, memHostRepo{}, &seqIDGenerator{}, keylock.New(), inlineTx{}, nopMetrics{}, nopLogger{})
}

func windows(slots []*domain.AvailabilitySlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, fmt.Sprintf("%s %s-%s", s.DayOfWeek, s.StartTime, s.EndTime))
	}
	return out
}

func TestExecute_CreatesSlots(t *testing.T) {
	repo := &memSlotRepo{}
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		HostID:          1,
		Days:            []string{"monday", "Tuesday"},
		TimeRanges:      []TimeRange{{Start: "09:00", End: "10:00"}},
		IntervalMinutes: 30,
		SlotType:        " Consultation ",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.CreatedCount)
	assert.Equal(t, []string{
		"Monday 09:00-09:30", "Monday 09:30-10:00",
		"Tuesday 09:00-09:30", "Tuesday 09:30-10:00",
	}, windows(resp.Slots))

	for _, s := range resp.Slots {
		assert.Equal(t, "Consultation", s.SlotType)
		assert.Equal(t, "consultation", s.Name)
		assert.Equal(t, 30, s.DurationMinutes)
		assert.NotEmpty(t, s.SlotID)
	}
}

func TestExecute_IdempotentByReplacement(t *testing.T) {
	repo := &memSlotRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	req := &Request{
		HostID:          1,
		Days:            []string{"Monday"},
		TimeRanges:      []TimeRange{{Start: "09:00", End: "10:00"}},
		IntervalMinutes: 30,
		SlotType:        "Consultation",
	}

	first, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	_, err = uc.Execute(ctx, req)
	require.NoError(t, err)

	all, err := repo.List(ctx, availabilityRepo.Filter{HostID: 1})
	require.NoError(t, err)
	assert.Equal(t, windows(first.Slots), windows(all))

	// Идентификаторы слотов переживают повторную публикацию
	for i := range all {
		assert.Equal(t, first.Slots[i].SlotID, all[i].SlotID)
	}

	// Другой набор диапазонов полностью заменяет прежний
	req.TimeRanges = []TimeRange{{Start: "14:00", End: "15:00"}}
	_, err = uc.Execute(ctx, req)
	require.NoError(t, err)

	all, err = repo.List(ctx, availabilityRepo.Filter{HostID: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday 14:00-14:30", "Monday 14:30-15:00"}, windows(all))
}

func TestExecute_OtherTypesUntouched(t *testing.T) {
	repo := &memSlotRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{
		HostID: 1, Days: []string{"Friday"}, IntervalMinutes: 60, SlotType: "General Meeting",
		TimeRanges: []TimeRange{{Start: "10:00", End: "12:00"}},
	})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, &Request{
		HostID: 1, Days: []string{"Friday"}, IntervalMinutes: 30, SlotType: "Consultation",
		TimeRanges: []TimeRange{{Start: "10:00", End: "11:00"}},
	})
	require.NoError(t, err)

	general := "General Meeting"
	kept, err := repo.List(ctx, availabilityRepo.Filter{HostID: 1, SlotType: &general})
	require.NoError(t, err)
	assert.Len(t, kept, 2)
}

func TestExecute_ConcurrentReplaceSameType(t *testing.T) {
	repo := &memSlotRepo{}
	uc := newTestUseCase(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(ctx, &Request{
				HostID: 1, Days: []string{"Monday"}, IntervalMinutes: 30, SlotType: "Consultation",
				TimeRanges: []TimeRange{{Start: "09:00", End: "11:00"}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx, availabilityRepo.Filter{HostID: 1})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&memSlotRepo{})
	valid := func() *Request {
		return &Request{
			HostID:          1,
			Days:            []string{"Monday"},
			TimeRanges:      []TimeRange{{Start: "09:00", End: "10:00"}},
			IntervalMinutes: 30,
			SlotType:        "Consultation",
		}
	}

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{name: "no days", mutate: func(r *Request) { r.Days = nil }},
		{name: "unknown day", mutate: func(r *Request) { r.Days = []string{"Someday"} }},
		{name: "no ranges", mutate: func(r *Request) { r.TimeRanges = nil }},
		{name: "bad time", mutate: func(r *Request) { r.TimeRanges[0].Start = "9am" }},
		{name: "start after end", mutate: func(r *Request) { r.TimeRanges[0] = TimeRange{Start: "11:00", End: "10:00"} }},
		{name: "midnight as start", mutate: func(r *Request) { r.TimeRanges[0] = TimeRange{Start: "24:00", End: "24:00"} }},
		{name: "zero interval", mutate: func(r *Request) { r.IntervalMinutes = 0 }},
		{name: "interval below minimum", mutate: func(r *Request) { r.IntervalMinutes = domain.MinSlotIntervalMinutes - 1 }},
		{name: "interval above maximum", mutate: func(r *Request) { r.IntervalMinutes = domain.MaxSlotIntervalMinutes + 1 }},
		{name: "blank slot type", mutate: func(r *Request) { r.SlotType = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_RangeEndingAtMidnight(t *testing.T) {
	uc := newTestUseCase(&memSlotRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		HostID:          1,
		Days:            []string{"Friday"},
		TimeRanges:      []TimeRange{{Start: "23:00", End: "24:00"}},
		IntervalMinutes: 30,
		SlotType:        "Late Call",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Friday 23:00-23:30", "Friday 23:30-24:00"}, windows(resp.Slots))
}

func TestExecute_IntervalBoundsInclusive(t *testing.T) {
	for _, interval := range []int{domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes} {
		uc := newTestUseCase(&memSlotRepo{})

		_, err := uc.Execute(context.Background(), &Request{
			HostID:          1,
			Days:            []string{"Monday"},
			TimeRanges:      []TimeRange{{Start: "09:00", End: "17:00"}},
			IntervalMinutes: interval,
			SlotType:        "Workshop",
		})
		assert.NoError(t, err, "interval %d", interval)
	}
}

func TestExecute_HostNotFound(t *testing.T) {
	uc := newTestUseCase(&memSlotRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		HostID:          2,
		Days:            []string{"Monday"},
		TimeRanges:      []TimeRange{{Start: "09:00", End: "10:00"}},
		IntervalMinutes: 30,
		SlotType:        "Consultation",
	})
	assert.ErrorIs(t, err, ErrHostNotFound)
}
