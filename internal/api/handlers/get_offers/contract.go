package get_offers

import (
	"context"

	getOffers "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_offers"
)

type GetOffersUseCase interface {
	Execute(ctx context.Context, req *getOffers.Request) (*getOffers.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
