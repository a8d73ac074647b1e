package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) ListByHost(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

type mockHostRepo struct{ mock.Mock }

func (m *mockHostRepo) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	args := m.Called(ctx, username)
	h, _ := args.Get(0).(*domain.Host)
	return h, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var now = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func booking(id int64, startHour int) *domain.Booking {
	start := time.Date(2026, time.March, 2, startHour, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:             id,
		HostID:         1,
		GuestName:      "Bob",
		GuestEmail:     "bob@example.com",
		StartAt:        start,
		EndAt:          start.Add(30 * time.Minute),
		CalendarStatus: domain.CalendarCreated,
	}
}

func newTestService(b *mockBookingRepo, h *mockHostRepo) *Service {
	return NewService(b, h, logger.NewNop()).WithTimeProvider(fixedTime{now: now})
}

func TestService_GetByID(t *testing.T) {
	repo := &mockBookingRepo{}
	repo.On("GetByID", mock.Anything, int64(7)).Return(booking(7, 14), nil)
	repo.On("GetByID", mock.Anything, int64(8)).Return(nil, bookingRepo.ErrBookingNotFound)
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, errors.New("db down"))
	s := newTestService(repo, &mockHostRepo{})

	resp, err := s.GetByID(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.GuestName)
	assert.Equal(t, "created", resp.CalendarStatus)

	_, err = s.GetByID(context.Background(), 7, 2)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = s.GetByID(context.Background(), 8, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = s.GetByID(context.Background(), 9, 1)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_ListUpcoming(t *testing.T) {
	repo := &mockBookingRepo{}
	// 11:45-12:15 ещё идёт, 09:00 уже закончилась
	inProgress := booking(2, 11)
	inProgress.StartAt = inProgress.StartAt.Add(45 * time.Minute)
	inProgress.EndAt = inProgress.StartAt.Add(30 * time.Minute)

	repo.On("ListByHost", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.HostID == 1 && f.From != nil && f.From.Equal(now) && f.To == nil
	})).Return([]*domain.Booking{booking(1, 9), inProgress, booking(3, 15)}, nil)

	resp, err := newTestService(repo, &mockHostRepo{}).ListUpcoming(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, int64(2), resp.Bookings[0].ID)
	assert.Equal(t, int64(3), resp.Bookings[1].ID)
}

func TestService_ListBusy(t *testing.T) {
	repo := &mockBookingRepo{}
	hosts := &mockHostRepo{}
	hosts.On("GetByUsername", mock.Anything, "alice").Return(&domain.Host{ID: 1, Username: "alice"}, nil)
	hosts.On("GetByUsername", mock.Anything, "nobody").Return(nil, hostRepo.ErrHostNotFound)
	repo.On("ListByHost", mock.Anything, mock.Anything).Return([]*domain.Booking{booking(3, 15)}, nil)

	s := newTestService(repo, hosts)

	resp, err := s.ListBusy(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	require.Len(t, resp.Busy, 1)
	assert.Equal(t, 15, resp.Busy[0].StartAt.Hour())

	_, err = s.ListBusy(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrHostNotFound)
}
