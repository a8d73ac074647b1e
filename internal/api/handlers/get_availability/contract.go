package get_availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

type AvailabilityService interface {
	ListAll(ctx context.Context, hostID int64) (*models.SlotListResponse, error)
	ListGrouped(ctx context.Context, hostID int64) (*models.GroupedSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
