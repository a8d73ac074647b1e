package create_bulk_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	createBulkSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_bulk_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingHostID      = "отсутствует ID хоста"
	msgInvalidInput       = "некорректные параметры расписания"
	msgHostNotFound       = "хост не найден"
)

type Handler struct {
	useCase CreateBulkSlotsUseCase
	logger  Logger
}

func NewHandler(useCase CreateBulkSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/me/availability/bulk
// Заменяет все слоты указанного типа новым набором
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("POST /me/availability/bulk - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	var req CreateBulkSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /me/availability/bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(hostID))
	if err != nil {
		switch {
		case errors.Is(err, createBulkSlots.ErrInvalidInput):
			h.logger.Warn("POST /me/availability/bulk - Invalid input: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBulkSlots.ErrHostNotFound):
			h.logger.Warn("POST /me/availability/bulk - Host not found: host_id=%d", hostID)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("POST /me/availability/bulk - Failed to create slots: host_id=%d, error=%v", hostID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /me/availability/bulk - Slots created: host_id=%d, slot_type=%q, count=%d",
		hostID, req.SlotType, result.CreatedCount)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
