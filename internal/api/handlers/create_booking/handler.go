package create_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени, ожидается RFC3339"
	msgInvalidInput        = "некорректные данные бронирования"
	msgOutsideAvailability = "выбранное время не входит в расписание хоста"
	msgSlotNotAvailable    = "выбранный временной слот уже занят"
	msgHostNotFound        = "хост не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/hosts/{username}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hosts/{username}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(username)
	if err != nil {
		h.logger.Warn("POST /hosts/{username}/bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrConflict):
			h.logger.Warn("POST /hosts/{username}/bookings - Slot already booked: username=%s, start=%s",
				username, req.Start)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrHostNotFound):
			h.logger.Warn("POST /hosts/{username}/bookings - Host not found: username=%s", username)
			handlers.RespondNotFound(w, msgHostNotFound)

		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /hosts/{username}/bookings - Outside availability: username=%s, start=%s, end=%s",
				username, req.Start, req.End)
			handlers.RespondBadRequest(w, msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /hosts/{username}/bookings - Invalid input: username=%s, error=%v", username, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /hosts/{username}/bookings - Failed to create booking: username=%s, error=%v",
				username, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /hosts/{username}/bookings - Booking created successfully: booking_id=%d, username=%s, degraded=%t",
		result.Booking.ID, username, response.Enrichment != nil && response.Enrichment.Degraded)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
