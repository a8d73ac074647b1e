package get_availability

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgMissingHostID = "отсутствует ID хоста"
	msgInvalidFlat   = "параметр flat должен быть true или false"
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

// Handle GET /api/v1/me/availability
// Query params: flat (optional) - плоский список вместо группировки по типу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/availability - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	flat := false
	if raw := r.URL.Query().Get("flat"); raw != "" {
		var err error
		flat, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /me/availability - Invalid flat param: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFlat)
			return
		}
	}

	if flat {
		slots, err := h.service.ListAll(r.Context(), hostID)
		if err != nil {
			h.logger.Error("GET /me/availability - Failed to list slots: host_id=%d, error=%v", hostID, err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Info("GET /me/availability - Slots retrieved: host_id=%d, count=%d", hostID, len(slots.Slots))
		handlers.RespondJSON(w, http.StatusOK, slots)
		return
	}

	groups, err := h.service.ListGrouped(r.Context(), hostID)
	if err != nil {
		h.logger.Error("GET /me/availability - Failed to group slots: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/availability - Slot groups retrieved: host_id=%d, groups=%d", hostID, len(groups.Groups))
	handlers.RespondJSON(w, http.StatusOK, groups)
}
