package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBooking/internal/service/availability"
)

const (
	msgInvalidCreatorID = "некорректный ID автора"
	msgNotFound         = "расписание не настроено"
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

// Handle GET /api/v1/creators/{creatorId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	creatorID, err := strconv.ParseInt(mux.Vars(r)["creatorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /creators/{id}/availability - Invalid creator ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCreatorID)
		return
	}

	schedule, err := h.service.Get(r.Context(), creatorID)
	if err != nil {
		if errors.Is(err, availability.ErrScheduleNotFound) {
			h.logger.Warn("GET /creators/{id}/availability - Schedule not found: creator_id=%d", creatorID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /creators/{id}/availability - Failed to get schedule: creator_id=%d, error=%v",
			creatorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /creators/{id}/availability - Schedule retrieved: creator_id=%d", creatorID)
	handlers.RespondJSON(w, http.StatusOK, schedule)
}
