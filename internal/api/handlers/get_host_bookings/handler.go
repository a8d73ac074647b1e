package get_host_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
)

const (
	msgMissingHostID = "отсутствует ID хоста"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/me/bookings
// Возвращает ещё не закончившиеся бронирования хоста
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/bookings - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	result, err := h.service.ListUpcoming(r.Context(), hostID)
	if err != nil {
		h.logger.Error("GET /me/bookings - Failed to get bookings: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /me/bookings - Bookings retrieved successfully: host_id=%d, count=%d",
		hostID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
