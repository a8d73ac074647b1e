package availability

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
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/keylock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// memSlotRepo повторяет уникальный индекс (host_id, slot_type, day_of_week, start_time)
type memSlotRepo struct {
	mu     sync.Mutex
	nextID int64
	slots  []*domain.AvailabilitySlot
}

func (r *memSlotRepo) LockHost(context.Context, int64) error { return nil }

func (r *memSlotRepo) List(_ context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error) {
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
		if filter.Day != nil && s.DayOfWeek != *filter.Day {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memSlotRepo) FindByWindow(_ context.Context, hostID int64, day domain.Weekday, start, end types.TimeString) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.HostID == hostID && s.DayOfWeek == day && s.StartTime == start && s.EndTime == end {
			cp := *s
			return &cp, nil
		}
	}
	return nil, availabilityRepo.ErrSlotNotFound
}

func (r *memSlotRepo) duplicate(except int64, hostID int64, slotType string, day domain.Weekday, start types.TimeString) bool {
	for _, s := range r.slots {
		if s.ID != except && s.HostID == hostID && s.SlotType == slotType && s.DayOfWeek == day && s.StartTime == start {
			return true
		}
	}
	return false
}

func (r *memSlotRepo) Create(_ context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.duplicate(0, slot.HostID, slot.SlotType, slot.DayOfWeek, slot.StartTime) {
		return nil, availabilityRepo.ErrDuplicateSlot
	}
	r.nextID++
	slot.ID = r.nextID
	cp := *slot
	r.slots = append(r.slots, &cp)
	return slot, nil
}

func (r *memSlotRepo) UpdateType(_ context.Context, id int64, slotType, name string) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.ID != id {
			continue
		}
		if r.duplicate(id, s.HostID, slotType, s.DayOfWeek, s.StartTime) {
			return nil, availabilityRepo.ErrDuplicateSlot
		}
		s.SlotType = slotType
		s.Name = name
		cp := *s
		return &cp, nil
	}
	return nil, availabilityRepo.ErrSlotNotFound
}

func (r *memSlotRepo) deleteWhere(match func(s *domain.AvailabilitySlot) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.slots[:0]
	var deleted int64
	for _, s := range r.slots {
		if match(s) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.slots = kept
	return deleted
}

func (r *memSlotRepo) DeleteByType(_ context.Context, hostID int64, slotType string) (int64, error) {
	return r.deleteWhere(func(s *domain.AvailabilitySlot) bool { return s.HostID == hostID && s.SlotType == slotType }), nil
}

func (r *memSlotRepo) DeleteByDay(_ context.Context, hostID int64, day domain.Weekday) (int64, error) {
	return r.deleteWhere(func(s *domain.AvailabilitySlot) bool { return s.HostID == hostID && s.DayOfWeek == day }), nil
}

func (r *memSlotRepo) DeleteBySlotID(_ context.Context, hostID int64, slotID string) (int64, error) {
	return r.deleteWhere(func(s *domain.AvailabilitySlot) bool { return s.HostID == hostID && s.SlotID == slotID }), nil
}

type memHostRepo struct{}

func (memHostRepo) GetByID(_ context.Context, id int64) (*domain.Host, error) {
	if id != 1 {
		return nil, hostRepo.ErrHostNotFound
	}
	return &domain.Host{ID: 1, Username: "alice", Name: "Alice", Timezone: "Europe/Berlin", DefaultMeetingDuration: 30}, nil
}

func (h memHostRepo) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	if username != "alice" {
		return nil, hostRepo.ErrHostNotFound
	}
	return h.GetByID(ctx, 1)
}

type seqIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGenerator) New(slotType, day, start, end string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func newTestService(repo *memSlotRepo) *Service {
	return NewService(repo, memHostRepo{}, &seqIDGenerator{}, keylock.New(), inlineTx{}, logger.NewNop())
}

func insert(t *testing.T, s *Service, day, start, end, slotType string) *models.SlotResponse {
	t.Helper()
	resp, err := s.InsertSingle(context.Background(), &models.InsertSlotRequest{
		HostID: 1, DayOfWeek: day, StartTime: start, EndTime: end, SlotType: slotType,
	})
	require.NoError(t, err)
	return resp
}

func TestService_InsertSingle_CreatesWithDefaults(t *testing.T) {
	s := newTestService(&memSlotRepo{})

	resp := insert(t, s, "monday", "09:00", "09:45", "")

	assert.Equal(t, "Monday", resp.DayOfWeek)
	assert.Equal(t, domain.DefaultSlotType, resp.SlotType)
	assert.Equal(t, "general-meeting", resp.Name)
	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, "id-1", resp.SlotID)
}

func TestService_InsertSingle_EndsAtMidnight(t *testing.T) {
	s := newTestService(&memSlotRepo{})

	resp := insert(t, s, "Sunday", "23:15", "24:00", "")

	assert.Equal(t, "24:00", resp.EndTime)
	assert.Equal(t, 45, resp.DurationMinutes)
}

func TestService_InsertSingle_UpsertChangesTypeInPlace(t *testing.T) {
	repo := &memSlotRepo{}
	s := newTestService(repo)

	first := insert(t, s, "Monday", "09:00", "09:30", "Intro Call")
	second := insert(t, s, "Monday", "09:00", "09:30", "Deep Dive")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SlotID, second.SlotID)
	assert.Equal(t, "Deep Dive", second.SlotType)
	assert.Equal(t, "deep-dive", second.Name)

	all, err := s.ListAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, all.Slots, 1)

	// повтор с тем же типом ничего не меняет
	third := insert(t, s, "Monday", "09:00", "09:30", "Deep Dive")
	assert.Equal(t, second.SlotID, third.SlotID)
}

func TestService_InsertSingle_Conflict(t *testing.T) {
	s := newTestService(&memSlotRepo{})

	insert(t, s, "Monday", "09:00", "10:00", "Deep Dive")

	_, err := s.InsertSingle(context.Background(), &models.InsertSlotRequest{
		HostID: 1, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "09:30", SlotType: "Deep Dive",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestService_InsertSingle_Validation(t *testing.T) {
	s := newTestService(&memSlotRepo{})

	tests := []struct {
		name string
		req  models.InsertSlotRequest
		want error
	}{
		{name: "bad day", req: models.InsertSlotRequest{HostID: 1, DayOfWeek: "Funday", StartTime: "09:00", EndTime: "10:00"}, want: ErrInvalidInput},
		{name: "bad time", req: models.InsertSlotRequest{HostID: 1, DayOfWeek: "Monday", StartTime: "9", EndTime: "10:00"}, want: ErrInvalidInput},
		{name: "reversed", req: models.InsertSlotRequest{HostID: 1, DayOfWeek: "Monday", StartTime: "10:00", EndTime: "09:00"}, want: ErrInvalidInput},
		{name: "unknown host", req: models.InsertSlotRequest{HostID: 2, DayOfWeek: "Monday", StartTime: "09:00", EndTime: "10:00"}, want: ErrHostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.InsertSingle(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_ListGrouped(t *testing.T) {
	s := newTestService(&memSlotRepo{})

	insert(t, s, "Monday", "09:00", "09:30", "B")
	insert(t, s, "Tuesday", "09:00", "09:30", "A")
	insert(t, s, "Monday", "10:00", "10:30", "B")

	resp, err := s.ListGrouped(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "B", resp.Groups[0].SlotType)
	assert.Len(t, resp.Groups[0].Slots, 2)
	assert.Equal(t, "09:00", resp.Groups[0].Slots[0].StartTime)
	assert.Equal(t, "A", resp.Groups[1].SlotType)
}

func TestService_GetPublicAvailability(t *testing.T) {
	s := newTestService(&memSlotRepo{})
	insert(t, s, "Friday", "14:00", "15:00", "Office Hours")

	resp, err := s.GetPublicAvailability(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Host.Username)
	assert.Equal(t, "Europe/Berlin", resp.Host.Timezone)
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, "office-hours", resp.Groups[0].Name)

	_, err = s.GetPublicAvailability(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestService_Deletes(t *testing.T) {
	s := newTestService(&memSlotRepo{})
	ctx := context.Background()

	a := insert(t, s, "Monday", "09:00", "09:30", "A")
	insert(t, s, "Monday", "10:00", "10:30", "B")
	insert(t, s, "Tuesday", "09:00", "09:30", "B")
	insert(t, s, "Wednesday", "09:00", "09:30", "C")

	resp, err := s.DeleteBySlotID(ctx, 1, a.SlotID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)

	// повторное удаление не ошибка
	resp, err = s.DeleteBySlotID(ctx, 1, a.SlotID)
	require.NoError(t, err)
	assert.Zero(t, resp.Deleted)

	resp, err = s.DeleteByType(ctx, 1, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)

	resp, err = s.DeleteByDay(ctx, 1, "wednesday")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Deleted)

	all, err := s.ListAll(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, all.Slots)

	_, err = s.DeleteByDay(ctx, 1, "someday")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.DeleteByType(ctx, 1, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_DeletesAreScopedToHost(t *testing.T) {
	repo := &memSlotRepo{}
	s := newTestService(repo)
	a := insert(t, s, "Monday", "09:00", "09:30", "A")

	resp, err := s.DeleteBySlotID(context.Background(), 2, a.SlotID)
	require.NoError(t, err)
	assert.Zero(t, resp.Deleted)
	assert.Len(t, repo.slots, 1)
}
