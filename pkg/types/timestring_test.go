package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "09:00"},
		{in: "23:59"},
		{in: "00:00"},
		{in: "9:00", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := TimeString(tt.in).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_EndOfDay(t *testing.T) {
	assert.NoError(t, EndOfDay.ValidateEnd())
	assert.NoError(t, TimeString("17:00").ValidateEnd())
	assert.ErrorIs(t, TimeString("24:01").ValidateEnd(), ErrInvalidTimeString)

	m, err := EndOfDay.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 24*60, m)

	got, err := NewTimeStringFromMinutes(24 * 60)
	require.NoError(t, err)
	assert.Equal(t, EndOfDay, got)

	_, err = NewTimeStringFromMinutes(24*60 + 1)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	assert.True(t, TimeString("23:00").IsBefore(EndOfDay))

	// конец суток - полночь следующего дня в той же зоне
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	end, err := EndOfDay.On(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, loc), end)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:30").IsBefore("10:00"))
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:30 в Нью-Йорке это уже следующий день в UTC, дата не должна съехать
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	got, err := TimeString("23:30").On(date, loc)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Day())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 23, got.Hour())
	assert.Equal(t, loc, got.Location())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("14:00")))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan("24:00"))
	assert.Equal(t, EndOfDay, ts)

	assert.Error(t, ts.Scan(42))
}
