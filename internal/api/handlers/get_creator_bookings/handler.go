package get_creator_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations"
)

const (
	msgInvalidCreatorID = "некорректный ID автора"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidParams    = "некорректные параметры запроса"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/creators/{creatorId}/bookings
// Query params: dateFrom, dateTo, status, includeCancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creatorID, err := strconv.ParseInt(mux.Vars(r)["creatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /creators/{id}/bookings - Invalid creator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreatorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /creators/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		creatorID,
		userID,
		query.Get("dateFrom"),
		query.Get("dateTo"),
		query.Get("status"),
		query.Get("includeCancelled"),
	)
	if err != nil {
		h.logger.Warn("GET /creators/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Права автора проверяет сервис
	result, err := h.service.GetCreatorReservations(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /creators/{id}/bookings - Access denied: creator_id=%d, user_id=%d",
				creatorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /creators/{id}/bookings - Invalid parameters: creator_id=%d, error=%v", creatorID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /creators/{id}/bookings - Failed to get bookings: creator_id=%d, error=%v",
				creatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /creators/{id}/bookings - Bookings retrieved successfully: creator_id=%d, count=%d",
		creatorID, len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
