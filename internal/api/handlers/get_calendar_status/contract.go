package get_calendar_status

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/hosts/models"
)

type HostService interface {
	CalendarStatus(ctx context.Context, hostID int64) (*models.CalendarStatusResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
