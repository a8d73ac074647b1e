package insert_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

const (
	msgMissingHostID      = "отсутствует ID хоста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные слота"
	msgHostNotFound       = "хост не найден"
	msgSlotConflict       = "слот этого типа уже начинается в это время"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/me/availability
// Повторная отправка того же окна с другим типом меняет тип существующего слота
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("POST /me/availability - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	var req models.InsertSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /me/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.HostID = hostID

	result, err := h.service.InsertSingle(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /me/availability - Invalid data: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, availability.ErrHostNotFound):
			h.logger.Warn("POST /me/availability - Host not found: host_id=%d", hostID)
			handlers.RespondNotFound(w, msgHostNotFound)

		case errors.Is(err, availability.ErrSlotConflict):
			h.logger.Warn("POST /me/availability - Slot conflict: host_id=%d, day=%s, start=%s",
				hostID, req.DayOfWeek, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		default:
			h.logger.Error("POST /me/availability - Failed to insert slot: host_id=%d, error=%v", hostID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /me/availability - Slot stored: host_id=%d, slot_id=%s", hostID, result.SlotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
