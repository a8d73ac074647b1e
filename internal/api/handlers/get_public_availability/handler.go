package get_public_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

const (
	msgHostNotFound = "хост не найден"
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

// Handle GET /api/v1/hosts/{username}/availability
// Публичный профиль хоста и его слоты, сгруппированные по типу
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	result, err := h.service.GetPublicAvailability(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrHostNotFound):
			h.logger.Warn("GET /hosts/{username}/availability - Host not found: username=%s", username)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("GET /hosts/{username}/availability - Failed to get availability: username=%s, error=%v",
				username, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /hosts/{username}/availability - Availability retrieved: username=%s, groups=%d",
		username, len(result.Groups))
	handlers.RespondJSON(w, http.StatusOK, result)
}
