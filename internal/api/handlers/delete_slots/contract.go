package delete_slots

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	DeleteByDay(ctx context.Context, hostID int64, day string) (*models.DeleteResponse, error)
	DeleteBySlotID(ctx context.Context, hostID int64, slotID string) (*models.DeleteResponse, error)
	DeleteByType(ctx context.Context, hostID int64, slotType string) (*models.DeleteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
