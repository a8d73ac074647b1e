package get_calendar_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hosts"
)

const (
	msgMissingHostID = "отсутствует ID хоста"
	msgHostNotFound  = "хост не найден"
)

type Handler struct {
	service HostService
	logger  Logger
}

func NewHandler(service HostService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/calendar-status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/calendar-status - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	status, err := h.service.CalendarStatus(r.Context(), hostID)
	if err != nil {
		if errors.Is(err, hosts.ErrHostNotFound) {
			h.logger.Warn("GET /me/calendar-status - Host not found: host_id=%d", hostID)
			handlers.RespondNotFound(w, msgHostNotFound)
			return
		}
		h.logger.Error("GET /me/calendar-status - Failed to get status: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/calendar-status - host_id=%d, connected=%t", hostID, status.Connected)
	handlers.RespondJSON(w, http.StatusOK, status)
}
