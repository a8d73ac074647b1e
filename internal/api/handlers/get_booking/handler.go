package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingHostID    = "отсутствует ID хоста"
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

// Handle GET /api/v1/me/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("GET /me/bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	hostID, ok := middleware.GetHostID(r.Context())
	if !ok {
		h.logger.Warn("GET /me/bookings/{id} - Missing host ID")
		handlers.RespondUnauthorized(w, msgMissingHostID)
		return
	}

	// Чужое бронирование сервис отдаёт как ненайденное
	booking, err := h.service.GetByID(r.Context(), bookingID, hostID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /me/bookings/{id} - Booking not found: booking_id=%d, host_id=%d", bookingID, hostID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /me/bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /me/bookings/{id} - Booking retrieved successfully: booking_id=%d, host_id=%d",
		bookingID, hostID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
