package hosts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	hostRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/host"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type stubHostRepo map[int64]*domain.Host

func (r stubHostRepo) GetByID(_ context.Context, id int64) (*domain.Host, error) {
	h, ok := r[id]
	if !ok {
		return nil, hostRepo.ErrHostNotFound
	}
	return h, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func TestService_CalendarStatus(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Minute)
	valid := now.Add(time.Hour)

	repo := stubHostRepo{
		1: {ID: 1},
		2: {ID: 2, GoogleRefreshToken: ptr.Ptr("r"), GoogleAccessToken: ptr.Ptr("a"), GoogleTokenExpiry: &expired},
		3: {ID: 3, GoogleRefreshToken: ptr.Ptr("r"), GoogleAccessToken: ptr.Ptr("a"), GoogleTokenExpiry: &valid},
	}
	s := NewService(repo, logger.NewNop()).WithTimeProvider(fixedTime{now: now})

	tests := []struct {
		name    string
		hostID  int64
		conn    bool
		valid   bool
		refresh bool
	}{
		{name: "not connected", hostID: 1},
		{name: "expired token", hostID: 2, conn: true, refresh: true},
		{name: "valid token", hostID: 3, conn: true, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.CalendarStatus(context.Background(), tt.hostID)
			require.NoError(t, err)
			assert.Equal(t, tt.conn, resp.Connected)
			assert.Equal(t, tt.valid, resp.HasValidToken)
			assert.Equal(t, tt.refresh, resp.NeedsRefresh)
		})
	}

	_, err := s.CalendarStatus(context.Background(), 42)
	assert.ErrorIs(t, err, ErrHostNotFound)
}
