package delete_slots

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

const (
	msgMissingHostID = "отсутствует ID хоста"
	msgInvalidDay    = "некорректный день недели"
	msgInvalidSlotID = "некорректный ID слота"
	msgInvalidType   = "некорректный тип слота"
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

// HandleByDay DELETE /api/v1/me/availability/days/{day}
func (h *Handler) HandleByDay(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "DELETE /me/availability/days/{day}", "day", msgInvalidDay, h.service.DeleteByDay)
}

// HandleBySlotID DELETE /api/v1/me/availability/slots/{slotId}
// Удаление несуществующего слота возвращает deleted=0
func (h *Handler) HandleBySlotID(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "DELETE /me/availability/slots/{slotId}", "slotId", msgInvalidSlotID, h.service.DeleteBySlotID)
}

// HandleByType DELETE /api/v1/me/availability/types/{slotType}
func (h *Handler) HandleByType(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "DELETE /me/availability/types/{slotType}", "slotType", msgInvalidType, h.service.DeleteByType)
}

type deleteFunc func(ctx context.Context, hostID int64, value string) (*models.DeleteResponse, error)

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route, param, msgInvalid string, del deleteFunc) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing host ID", route)
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	value := mux.Vars(r)[param]

	result, err := del(r.Context(), hostID, value)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("%s - Invalid %s: host_id=%d, value=%q, error=%v", route, param, hostID, value, err)
			handlers.RespondBadRequest(w, msgInvalid)

		default:
			h.logger.Error("%s - Failed to delete slots: host_id=%d, %s=%q, error=%v", route, hostID, param, value, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Slots deleted: host_id=%d, %s=%q, deleted=%d", route, hostID, param, value, result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
