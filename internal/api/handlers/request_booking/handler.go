package request_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SlotBooking/internal/api/middleware"
	requestBooking "github.com/m04kA/SMC-SlotBooking/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotConflict       = "выбранный интервал уже занят"
	msgServiceNotFound    = "услуга не найдена"
	msgBookingDisabled    = "автор не принимает бронирования"
	msgInvalidTimeSlot    = "интервал не совпадает со слотом расписания"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidInput       = "некорректные данные бронирования"
	msgTemporaryFailure   = "сервис временно недоступен, повторите запрос"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, requestBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, creator_id=%d, start=%s",
				userID, req.CreatorID, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, requestBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: creator_id=%d, service_id=%d", req.CreatorID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, requestBooking.ErrBookingDisabled):
			h.logger.Warn("POST /bookings - Booking disabled: creator_id=%d", req.CreatorID)
			handlers.RespondBadRequest(w, msgBookingDisabled)

		case errors.Is(err, requestBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: creator_id=%d, start=%s", req.CreatorID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, requestBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: creator_id=%d, start=%s", req.CreatorID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, requestBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: creator_id=%d, start=%s", req.CreatorID, req.StartTime)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, requestBooking.ErrTransientFailure):
			h.logger.Warn("POST /bookings - Transient failure: user_id=%d, creator_id=%d, error=%v",
				userID, req.CreatorID, err)
			handlers.RespondServiceUnavailable(w, msgTemporaryFailure, handlers.DefaultRetryAfter)

		default:
			h.logger.Error("POST /bookings - Failed to request booking: user_id=%d, creator_id=%d, error=%v",
				userID, req.CreatorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if result.Degraded {
		h.logger.Warn("POST /bookings - Booking created with degraded side effects: booking_id=%d, warnings=%v",
			result.ID, result.Warnings)
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, creator_id=%d, status=%s",
		result.ID, userID, req.CreatorID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
