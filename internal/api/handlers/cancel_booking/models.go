package cancel_booking

import (
	"github.com/m04kA/SMC-SlotBooking/internal/domain"
	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations/models"
)

// CancelBookingRequest HTTP request model, тело опционально
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID               int64                       `json:"id"`
	Status           string                      `json:"status"`
	AlreadyCancelled bool                        `json:"alreadyCancelled"`
	Booking          *models.ReservationResponse `json:"booking,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelRequest {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &models.CancelRequest{
		UserID: userID,
		Reason: reason,
	}
}

func cancelledResponse(booking *models.ReservationResponse) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:      booking.ID,
		Status:  booking.Status,
		Booking: booking,
	}
}

func alreadyCancelledResponse(id int64) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:               id,
		Status:           string(domain.StatusCancelled),
		AlreadyCancelled: true,
	}
}
