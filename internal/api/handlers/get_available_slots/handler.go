package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SlotBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidCreatorID   = "некорректный ID автора"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound    = "услуга не найдена"
	msgCatalogUnavailable = "каталог услуг временно недоступен"
	msgInvalidRequest     = "некорректные параметры запроса"
)

var (
	errInvalidDate      = errors.New("invalid date")
	errInvalidServiceID = errors.New("invalid service id")
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/creators/{creatorId}/slots
// Query params: date (required, YYYY-MM-DD), serviceId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creatorID, err := strconv.ParseInt(mux.Vars(r)["creatorId"], 10, 64)
	if err != nil || creatorID <= 0 {
		h.logger.Warn("GET /creators/{id}/slots - Invalid creator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreatorID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /creators/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(creatorID, dateStr, query.Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /creators/{id}/slots - Invalid query: creator_id=%d, error=%v", creatorID, err)
		if errors.Is(err, errInvalidServiceID) {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /creators/{id}/slots - Service not found: creator_id=%d", creatorID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /creators/{id}/slots - Invalid input: creator_id=%d, error=%v", creatorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		case errors.Is(err, getAvailableSlots.ErrServiceUnavailable):
			h.logger.Warn("GET /creators/{id}/slots - Catalog unavailable: creator_id=%d, error=%v", creatorID, err)
			handlers.RespondServiceUnavailable(w, msgCatalogUnavailable, handlers.DefaultRetryAfter)

		default:
			h.logger.Error("GET /creators/{id}/slots - Failed to get slots: creator_id=%d, error=%v", creatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /creators/{id}/slots - Slots retrieved successfully: creator_id=%d, date=%s, slots_count=%d",
		creatorID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(creatorID, useCaseReq.ServiceID, result))
}
