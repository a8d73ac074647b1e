package get_busy

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgHostNotFound = "хост не найден"
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

// Handle GET /api/v1/hosts/{username}/bookings
// Гостю отдаются только занятые интервалы, без имён и email
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	result, err := h.service.ListBusy(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrHostNotFound):
			h.logger.Warn("GET /hosts/{username}/bookings - Host not found: username=%s", username)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("GET /hosts/{username}/bookings - Failed to get busy intervals: username=%s, error=%v",
				username, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /hosts/{username}/bookings - Busy intervals retrieved: username=%s, count=%d",
		username, len(result.Busy))
	handlers.RespondJSON(w, http.StatusOK, result)
}
