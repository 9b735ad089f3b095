package get_service_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SlotBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingDates       = "параметры dateFrom и dateTo обязательны"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidWindow      = "некорректное окно дат"
	msgWindowTooLarge     = "окно дат не должно превышать 31 день"
	msgServiceNotFound    = "услуга не найдена"
	msgCatalogUnavailable = "каталог услуг временно недоступен"
)

type Handler struct {
	useCase ServiceAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ServiceAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
// Query params: dateFrom, dateTo (required, YYYY-MM-DD, dateTo включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(mux.Vars(r)["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	dateFrom, dateTo := query.Get("dateFrom"), query.Get("dateTo")
	if dateFrom == "" || dateTo == "" {
		h.logger.Warn("GET /services/{id}/availability - Missing dates: service_id=%d", serviceID)
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateFrom, dateTo)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteRange(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrWindowTooLarge):
			h.logger.Warn("GET /services/{id}/availability - Window too large: service_id=%d, from=%s, to=%s",
				serviceID, dateFrom, dateTo)
			handlers.RespondBadRequest(w, msgWindowTooLarge)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/availability - Invalid window: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceUnavailable):
			h.logger.Warn("GET /services/{id}/availability - Catalog unavailable: service_id=%d, error=%v", serviceID, err)
			handlers.RespondServiceUnavailable(w, msgCatalogUnavailable, handlers.DefaultRetryAfter)

		default:
			h.logger.Error("GET /services/{id}/availability - Failed to get availability: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/availability - Availability retrieved: service_id=%d, from=%s, to=%s, slots_count=%d",
		serviceID, dateFrom, dateTo, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
