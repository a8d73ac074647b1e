package create_bulk_slots

import (
	"context"

	createBulkSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_bulk_slots"
)

type CreateBulkSlotsUseCase interface {
	Execute(ctx context.Context, req *createBulkSlots.Request) (*createBulkSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
