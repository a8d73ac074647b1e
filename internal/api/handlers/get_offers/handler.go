package get_offers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getOffers "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_offers"
)

const (
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput     = "некорректные параметры запроса"
	msgHostNotFound     = "хост не найден"
	msgSlotTypeNotFound = "хост не публикует слоты этого типа"
)

type Handler struct {
	useCase GetOffersUseCase
	logger  Logger
}

func NewHandler(useCase GetOffersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/hosts/{username}/offers
// Query params: date (required, YYYY-MM-DD), slotType (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /hosts/{username}/offers - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(username, dateStr, r.URL.Query().Get("slotType"))
	if err != nil {
		h.logger.Warn("GET /hosts/{username}/offers - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getOffers.ErrHostNotFound):
			h.logger.Warn("GET /hosts/{username}/offers - Host not found: username=%s", username)
			handlers.RespondNotFound(w, msgHostNotFound)

		case errors.Is(err, getOffers.ErrSlotTypeNotFound):
			h.logger.Warn("GET /hosts/{username}/offers - Slot type not found: username=%s, slot_type=%v",
				username, r.URL.Query().Get("slotType"))
			handlers.RespondNotFound(w, msgSlotTypeNotFound)

		case errors.Is(err, getOffers.ErrInvalidInput):
			h.logger.Warn("GET /hosts/{username}/offers - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /hosts/{username}/offers - Failed to get offers: username=%s, date=%s, error=%v",
				username, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /hosts/{username}/offers - Offers retrieved successfully: username=%s, date=%s, offers_count=%d",
		username, dateStr, len(result.Offers))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
