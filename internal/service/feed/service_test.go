package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type stubRepos struct {
	filter domain.BookingsFilter
}

func (r *stubRepos) ListByHost(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.filter = filter
	return nil, nil
}

func (r *stubRepos) List(context.Context, availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error) {
	return []*domain.AvailabilitySlot{{SlotID: "s1", DayOfWeek: domain.Friday, StartTime: "10:00", EndTime: "11:00", SlotType: "Focus"}}, nil
}

func (r *stubRepos) GetByID(_ context.Context, id int64) (*domain.Host, error) {
	if id != 1 {
		return nil, hostRepo.ErrHostNotFound
	}
	return berlinHost(), nil
}

func (r *stubRepos) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	if username != "alice" {
		return nil, hostRepo.ErrHostNotFound
	}
	return berlinHost(), nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newTestService(repos *stubRepos, now time.Time) *Service {
	return NewService(repos, repos, repos, NewBuilder("-//test//EN", "test"), logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
}

func TestService_HostBookings(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	repos := &stubRepos{}
	s := newTestService(repos, now)

	doc, err := s.HostBookings(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	require.NotNil(t, repos.filter.From)
	assert.True(t, repos.filter.From.Equal(now))

	_, err = s.HostBookings(context.Background(), 2)
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestService_HostAvailability(t *testing.T) {
	s := newTestService(&stubRepos{}, time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC))

	doc, err := s.HostAvailability(context.Background(), "alice")
	require.NoError(t, err)
	doc = unfold(doc)
	assert.Contains(t, doc, "RRULE:FREQ=WEEKLY;BYDAY=FR")
	assert.Contains(t, doc, "DTSTART;TZID=Europe/Berlin:20260306T100000")

	_, err = s.HostAvailability(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrHostNotFound)
}
