package pglock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, Key("bookings", int64(42)), Key("bookings", int64(42)))
	assert.NotEqual(t, Key("bookings", int64(42)), Key("bookings", int64(43)))
	assert.NotEqual(t, Key("bookings", int64(42)), Key("slots", int64(42)))
	assert.NotEqual(t, Key("slots", int64(1), "Consultation"), Key("slots", int64(1), "General Meeting"))
}

func TestAcquireXact_RequiresTransaction(t *testing.T) {
	err := AcquireXact(context.Background(), nil, Key("bookings", 1))
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestAcquireXactShared_RequiresTransaction(t *testing.T) {
	err := AcquireXactShared(context.Background(), nil, Key("availability", 1))
	assert.ErrorIs(t, err, ErrNoTransaction)
}
