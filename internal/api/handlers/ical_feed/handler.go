package ical_feed

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/feed"
)

const (
	msgMissingHostID = "отсутствует ID хоста"
	msgHostNotFound  = "хост не найден"
)

type Handler struct {
	service FeedService
	logger  Logger
}

func NewHandler(service FeedService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleBookings GET /api/v1/me/bookings.ics
func (h *Handler) HandleBookings(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/bookings.ics - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	doc, err := h.service.HostBookings(r.Context(), hostID)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrHostNotFound):
			h.logger.Warn("GET /me/bookings.ics - Host not found: host_id=%d", hostID)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("GET /me/bookings.ics - Failed to build feed: host_id=%d, error=%v", hostID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /me/bookings.ics - Feed built: host_id=%d", hostID)
	handlers.RespondCalendar(w, "bookings.ics", doc)
}

// HandleAvailability GET /api/v1/hosts/{username}/availability.ics
// Еженедельное расписание хоста в виде повторяющихся событий
func (h *Handler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	doc, err := h.service.HostAvailability(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrHostNotFound):
			h.logger.Warn("GET /hosts/{username}/availability.ics - Host not found: username=%s", username)
			handlers.RespondNotFound(w, msgHostNotFound)

		default:
			h.logger.Error("GET /hosts/{username}/availability.ics - Failed to build feed: username=%s, error=%v",
				username, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /hosts/{username}/availability.ics - Feed built: username=%s", username)
	handlers.RespondCalendar(w, username+"-availability.ics", doc)
}
