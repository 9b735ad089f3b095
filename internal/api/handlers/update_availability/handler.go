package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability/models"
)

const (
	msgInvalidCreatorID   = "некорректный ID автора"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidSchedule    = "некорректное расписание"
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

// invalidScheduleResponse 400 с причиной отказа валидации
type invalidScheduleResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Handle PUT /api/v1/creators/{creatorId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creatorID, err := strconv.ParseInt(mux.Vars(r)["creatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /creators/{id}/availability - Invalid creator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreatorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /creators/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /creators/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.CreatorID = creatorID

	schedule, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /creators/{id}/availability - Access denied: creator_id=%d, user_id=%d",
				creatorID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /creators/{id}/availability - Invalid schedule: creator_id=%d, error=%v", creatorID, err)
			handlers.RespondJSON(w, http.StatusBadRequest, invalidScheduleResponse{
				Error:  msgInvalidSchedule,
				Reason: err.Error(),
			})

		default:
			h.logger.Error("PUT /creators/{id}/availability - Failed to update schedule: creator_id=%d, error=%v",
				creatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /creators/{id}/availability - Schedule updated: creator_id=%d, booking_enabled=%t",
		creatorID, schedule.IsBookingEnabled)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
