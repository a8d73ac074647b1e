package get_offers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
)

type mockHostRepo struct{ mock.Mock }

func (m *mockHostRepo) GetByUsername(ctx context.Context, username string) (*domain.Host, error) {
	args := m.Called(ctx, username)
	host, _ := args.Get(0).(*domain.Host)
	return host, args.Error(1)
}

type mockSlotRepo struct{ mock.Mock }

func (m *mockSlotRepo) List(ctx context.Context, filter availabilityRepo.Filter) ([]*domain.AvailabilitySlot, error) {
	args := m.Called(ctx, filter)
	slots, _ := args.Get(0).([]*domain.AvailabilitySlot)
	return slots, args.Error(1)
}

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) ListByHost(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*domain.Booking)
	return bookings, args.Error(1)
}

type inlineTx struct{}

func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecute_ReturnsOffers(t *testing.T) {
	hosts := &mockHostRepo{}
	slotsRepo := &mockSlotRepo{}
	bookingsRepo := &mockBookingRepo{}

	host := &domain.Host{ID: 7, Username: "alice", Timezone: "UTC"}
	hosts.On("GetByUsername", mock.Anything, "alice").Return(host, nil)
	slotsRepo.On("List", mock.Anything, availabilityRepo.Filter{HostID: 7}).Return([]*domain.AvailabilitySlot{
		slot("a", domain.Monday, "14:00", "14:30", "General Meeting"),
		slot("b", domain.Monday, "14:30", "15:00", "General Meeting"),
	}, nil)
	bookingsRepo.On("ListByHost", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.HostID == 7 && f.From != nil && f.To != nil && f.To.Sub(*f.From) == 24*time.Hour
	})).Return([]*domain.Booking{{
		StartAt: time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC),
	}}, nil)

	uc := NewUseCase(hosts, slotsRepo, bookingsRepo, inlineTx{}, nopLogger{}).
		WithTimeProvider(fixedClock{now: longAgo})

	resp, err := uc.Execute(context.Background(), &Request{Username: "alice", Date: monday})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "UTC", resp.Timezone)
	require.Len(t, resp.Offers, 1)
	assert.Equal(t, "b", resp.Offers[0].SlotID)

	hosts.AssertExpectations(t)
	slotsRepo.AssertExpectations(t)
	bookingsRepo.AssertExpectations(t)
}

func TestExecute_HostNotFound(t *testing.T) {
	hosts := &mockHostRepo{}
	hosts.On("GetByUsername", mock.Anything, "ghost").Return(nil, hostRepo.ErrHostNotFound)

	uc := NewUseCase(hosts, &mockSlotRepo{}, &mockBookingRepo{}, inlineTx{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Username: "ghost", Date: monday})
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestExecute_UnknownSlotType(t *testing.T) {
	hosts := &mockHostRepo{}
	slotsRepo := &mockSlotRepo{}

	hosts.On("GetByUsername", mock.Anything, "alice").Return(&domain.Host{ID: 7}, nil)
	slotsRepo.On("List", mock.Anything, mock.Anything).Return([]*domain.AvailabilitySlot{}, nil)

	uc := NewUseCase(hosts, slotsRepo, &mockBookingRepo{}, inlineTx{}, nopLogger{})

	unknown := "Yoga"
	_, err := uc.Execute(context.Background(), &Request{Username: "alice", Date: monday, SlotType: &unknown})
	assert.ErrorIs(t, err, ErrSlotTypeNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&mockHostRepo{}, &mockSlotRepo{}, &mockBookingRepo{}, inlineTx{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Username: "", Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Username: "alice"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
