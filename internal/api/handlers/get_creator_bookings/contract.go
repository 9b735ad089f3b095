package get_creator_bookings

import (
	"context"

	"github.com/m04kA/SMC-SlotBooking/internal/service/reservations/models"
)

type ReservationService interface {
	GetCreatorReservations(ctx context.Context, req *models.GetCreatorReservationsRequest) ([]*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
